package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var limitFlag int

// syncCmd groups the synchronization commands
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize provider listings into the catalog",
}

// syncVenueProviderCmd synchronizes a single venue provider
var syncVenueProviderCmd = &cobra.Command{
	Use:   "venue-provider <id>",
	Short: "Synchronize one venue provider",
	Long:  `Runs one synchronization of the venue provider and prints the run statistics as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid venue provider id %q", args[0])
		}

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		service, err := rt.synchronization()
		if err != nil {
			return err
		}

		stats, err := service.SyncVenueProvider(cmd.Context(), uint(id), limitFlag)
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

// syncAllCmd synchronizes every active venue provider
var syncAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Synchronize every active venue provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		service, err := rt.synchronization()
		if err != nil {
			return err
		}

		results, err := service.SyncAll(cmd.Context())
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			rt.logger.Warn("Some venue providers failed", zap.Int("failed", failed))
		}
		return printJSON(results)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	syncVenueProviderCmd.Flags().IntVar(&limitFlag, "limit", 0, "Stop after this many checked entries (0 for no limit)")
	syncCmd.AddCommand(syncVenueProviderCmd)
	syncCmd.AddCommand(syncAllCmd)
	RootCmd.AddCommand(syncCmd)
}
