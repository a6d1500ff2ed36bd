package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

// DefaultRenewalSchedule runs the renewal pass once a day at midnight
const DefaultRenewalSchedule = "@daily"

// RenewalWorker runs the renewal pass on a cron schedule
type RenewalWorker struct {
	renewalService *RenewalService
	clock          domain.Clock
	logger         zerolog.Logger
	schedule       string
	cron           *cron.Cron
	mu             sync.Mutex
	running        bool
	runCtx         context.Context
	cancel         context.CancelFunc
	passes         sync.WaitGroup
}

// RenewalWorkerConfig holds configuration for the renewal worker
type RenewalWorkerConfig struct {
	Schedule string       // Cron expression; standard five fields or descriptors like @daily
	Clock    domain.Clock // Source of "today"; defaults to the system clock
}

// NewRenewalWorker creates a new renewal worker. An invalid schedule is an error.
func NewRenewalWorker(renewalService *RenewalService, logger zerolog.Logger, config RenewalWorkerConfig) (*RenewalWorker, error) {
	if config.Schedule == "" {
		config.Schedule = DefaultRenewalSchedule
	}
	if config.Clock == nil {
		config.Clock = domain.SystemClock
	}

	w := &RenewalWorker{
		renewalService: renewalService,
		clock:          config.Clock,
		logger:         logger.With().Str("component", "renewal_worker").Logger(),
		schedule:       config.Schedule,
		cron:           cron.New(cron.WithLocation(time.UTC)),
	}

	if _, err := w.cron.AddFunc(config.Schedule, w.runScheduled); err != nil {
		return nil, fmt.Errorf("invalid renewal schedule %q: %w", config.Schedule, err)
	}

	return w, nil
}

// Start runs one pass immediately, then hands the schedule to cron
func (w *RenewalWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.runCtx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.logger.Info().
		Str("schedule", w.schedule).
		Msg("Starting renewal worker")

	w.passes.Add(1)
	go func() {
		defer w.passes.Done()
		w.RunOnce(w.runCtx)
	}()

	w.cron.Start()
}

// Stop halts the schedule and waits for any pass in progress
func (w *RenewalWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping renewal worker")
	<-w.cron.Stop().Done()
	w.cancel()
	w.passes.Wait()
	w.logger.Info().Msg("Renewal worker stopped")
}

func (w *RenewalWorker) runScheduled() {
	w.mu.Lock()
	ctx := w.runCtx
	w.mu.Unlock()
	if ctx == nil {
		return
	}
	w.RunOnce(ctx)
}

// RunOnce performs a single renewal pass for the clock's current day
func (w *RenewalWorker) RunOnce(ctx context.Context) *RenewalResult {
	startTime := time.Now()
	today := domain.Today(w.clock)

	result, err := w.renewalService.AdvanceDue(ctx, today)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("today", today.String()).
			Msg("Renewal pass failed")
		return result
	}

	w.logger.Info().
		Str("today", today.String()).
		Int("count", len(result.Renewed)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed renewal pass")
	return result
}

// IsRunning returns whether the worker is currently running
func (w *RenewalWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
