package synchro

// SchedulerConfig configures periodic synchronization of every venue provider.
type SchedulerConfig struct {
	// Enabled starts the scheduler inside the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Spec is a robfig/cron expression, e.g. "@every 1h" or "0 */2 * * *".
	Spec string `mapstructure:"spec" default:"@every 1h"`
}
