package synchro

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler periodically synchronizes every active venue provider.
type Scheduler struct {
	cfg     SchedulerConfig
	service *Service
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewScheduler creates a scheduler. Ticks that fire while the previous one is
// still running are skipped.
func NewScheduler(cfg SchedulerConfig, service *Service, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cfg:     cfg,
		service: service,
		logger:  logger,
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
	}
}

// Start registers the job and starts the cron loop in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Spec, s.Tick); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.cfg.Spec, err)
	}
	s.logger.Info("Starting scheduler", zap.String("spec", s.cfg.Spec))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and returns a context done once the running tick ends.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info("Stopped scheduler")
	return ctx
}

// Tick runs one scheduled synchronization of every venue provider.
func (s *Scheduler) Tick() {
	s.logger.Info("Triggering scheduled synchronization")
	if _, err := s.service.SyncAll(context.Background()); err != nil {
		s.logger.Error("Scheduled synchronization failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
