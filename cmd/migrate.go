package cmd

import (
	"errors"
	"fmt"

	"catalog-sync/core/catalog"
	"catalog-sync/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkFlag bool

// migrateCmd creates or updates the catalog tables
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	Long:  `Runs AutoMigrate for every catalog model. With --check, only compares the tables with the models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if checkFlag {
			report, err := checks.CheckSchema(rt.db, catalog.Models()...)
			if err != nil {
				return fmt.Errorf("schema check failed: %w", err)
			}
			if err := printJSON(report); err != nil {
				return err
			}
			if !report.Matched {
				return errors.New("schema does not match the catalog models")
			}
			rt.logger.Info("Schema is up to date")
			return nil
		}

		if err := rt.db.AutoMigrate(catalog.Models()...); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		rt.logger.Info("Catalog tables migrated", zap.Int("models", len(catalog.Models())))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&checkFlag, "check", false, "Only verify the schema, do not migrate")
	RootCmd.AddCommand(migrateCmd)
}
