package integrity

import (
	"context"

	"catalog-sync/core/catalog"
	"catalog-sync/core/storage"
	"catalog-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Report combines every check.
type Report struct {
	Schema  *checks.SchemaReport  `json:"schema,omitempty"`
	Storage *checks.StorageReport `json:"storage,omitempty"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	client   storage.Client
	bucket   string
	region   string
	prefixes []string
	logger   *zap.Logger
	db       *gorm.DB
}

// NewService creates a new integrity service. prefixes lists the object
// prefixes the synchronization writes to.
func NewService(client storage.Client, bucket, region string, prefixes []string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client:   client,
		bucket:   bucket,
		region:   region,
		prefixes: prefixes,
		logger:   logger,
		db:       db,
	}
}

// CheckSchema compares the catalog tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, catalog.Models()...)
}

// CheckStorage inspects the thumbnail bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket, s.prefixes)
}

// FixStorage creates the bucket and the missing prefixes.
func (s *Service) FixStorage(ctx context.Context, missing []string) error {
	return checks.FixStorage(ctx, s.client, s.bucket, s.region, s.logger, missing)
}

// CheckAll runs every check concurrently. A failing check is reported in
// Errors and does not hide the others.
func (s *Service) CheckAll(ctx context.Context) *Report {
	report := &Report{Errors: map[string]string{}}
	var schemaErr, storageErr error

	var g errgroup.Group
	g.Go(func() error {
		report.Schema, schemaErr = s.CheckSchema()
		return nil
	})
	g.Go(func() error {
		report.Storage, storageErr = s.CheckStorage(ctx)
		return nil
	})
	_ = g.Wait()

	if schemaErr != nil {
		report.Errors["schema"] = schemaErr.Error()
	}
	if storageErr != nil {
		report.Errors["storage"] = storageErr.Error()
	}
	return report
}
