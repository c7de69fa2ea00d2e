package cmd

import (
	"errors"

	"catalog-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the catalog schema and the thumbnail storage",
	Long:  `Compares the catalog tables with the models and verifies the thumbnail bucket and prefixes. With --fix, creates what is missing in storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()
		logg := rt.logger

		if rt.store == nil {
			return errors.New("storage is not configured")
		}

		ctx := cmd.Context()
		svc := integrity.NewService(rt.store, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region,
			[]string{rt.cfg.Sync.ThumbsPrefix}, logg, rt.db)

		report := svc.CheckAll(ctx)
		if err := printJSON(report); err != nil {
			return err
		}

		if report.Storage != nil && (!report.Storage.BucketExists || len(report.Storage.MissingPrefixes) > 0) {
			if !fixFlag {
				logg.Warn("Storage is incomplete, run with --fix to create it",
					zap.Strings("missing", report.Storage.MissingPrefixes))
			} else {
				logg.Info("Fixing storage...")
				if err := svc.FixStorage(ctx, report.Storage.MissingPrefixes); err != nil {
					return err
				}
				logg.Info("Storage fixed successfully.")
			}
		}

		if len(report.Errors) > 0 {
			return errors.New("integrity checks failed")
		}
		if report.Schema != nil && !report.Schema.Matched {
			logg.Warn("Schema does not match the models, run migrate")
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket and prefixes")
	RootCmd.AddCommand(integrityCmd)
}
