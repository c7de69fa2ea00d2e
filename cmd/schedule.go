package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"catalog-sync/feature/synchro"

	"github.com/spf13/cobra"
)

// scheduleCmd runs the periodic synchronization in the foreground
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run periodic synchronization of all venue providers",
	Long:  `Synchronizes every active venue provider on the SCHEDULER_SPEC cron schedule until interrupted.`,
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

		scheduler := synchro.NewScheduler(rt.cfg.Scheduler, service, rt.logger)
		if err := scheduler.Start(); err != nil {
			return err
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		rt.logger.Info("Waiting for the running synchronization to finish...")
		<-scheduler.Stop().Done()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(scheduleCmd)
}
