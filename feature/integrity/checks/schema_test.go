package checks

import (
	"testing"

	"catalog-sync/core/catalog"
	"catalog-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestCheckSchema_Migrated(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(catalog.Models()...))

	report, err := CheckSchema(db, catalog.Models()...)
	require.NoError(t, err)
	assert.True(t, report.Matched, "errors: %v tables: %v", report.Errors, report.Tables)
	assert.Len(t, report.Tables, 5)
	assert.Equal(t, "ok", report.Tables["stocks"].Status)
}

func TestCheckSchema_MissingTable(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	report, err := CheckSchema(db, &catalog.Offer{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "offers")
}

func TestCheckSchema_MissingColumnAndType(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("offer_id", "bigint unsigned", "NO", "MUL", nil, "").
		AddRow("price", "float", "NO", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `stocks`").WillReturnRows(rows)

	report, err := CheckSchema(db, &catalog.Stock{})
	require.NoError(t, err)
	assert.False(t, report.Matched)

	table := report.Tables["stocks"]
	assert.Equal(t, "error", table.Status)
	assert.Contains(t, table.MissingColumns, "id_at_providers")
	assert.Contains(t, table.MissingColumns, "quantity")
	assert.NotContains(t, table.MissingColumns, "offer_id")
	require.Len(t, table.TypeMismatches, 1)
	assert.Contains(t, table.TypeMismatches[0], "price: expected decimal(10,2), got float")
}

func TestCheckSchema_InspectError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `providers`").WillReturnError(assert.AnError)

	report, err := CheckSchema(db, &catalog.Provider{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, 1)
}

func TestCheckSchema_NilDB(t *testing.T) {
	_, err := CheckSchema(nil, &catalog.Provider{})
	assert.Error(t, err)
}
