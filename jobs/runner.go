package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fairwayfive/golf-pool/services"
)

// Window is the inclusive active-hour range for scheduled cycles. A window
// whose stop hour precedes its start hour wraps past midnight.
type Window struct {
	StartHour int `json:"start_hour"`
	StopHour  int `json:"stop_hour"`
}

// Contains reports whether cycles may run during the given wall-clock hour.
// Both bounds are inclusive through the end of the hour.
func (w Window) Contains(hour int) bool {
	if w.StartHour <= w.StopHour {
		return hour >= w.StartHour && hour <= w.StopHour
	}
	return hour >= w.StartHour || hour <= w.StopHour
}

// CycleService runs one sync-and-score cycle for a tournament.
// *services.CycleRunner is the production implementation.
type CycleService interface {
	Run(ctx context.Context, tournamentID int, wait bool) (*services.RunInfo, error)
}

// Status is the diagnostic view of one tournament's scheduler.
type Status struct {
	TournamentID    int               `json:"tournament_id"`
	Running         bool              `json:"running"`
	IntervalSeconds int               `json:"interval_seconds,omitempty"`
	Window          *Window           `json:"window,omitempty"`
	LastRun         *services.RunInfo `json:"last_run,omitempty"`
}

// Runner is the scheduler task for one tournament. It owns a single loop
// goroutine; the first cycle fires on start and later ones follow the
// ticker. Ticks outside the active window are no-ops, and an overlapping
// cycle (for example a manual sync in flight) makes the tick skip rather
// than queue.
type Runner struct {
	tournamentID int
	interval     time.Duration
	window       Window
	cycles       CycleService
	logger       *slog.Logger

	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	lastRun *services.RunInfo
}

func newRunner(tournamentID int, interval time.Duration, window Window, cycles CycleService, logger *slog.Logger) *Runner {
	return &Runner{
		tournamentID: tournamentID,
		interval:     interval,
		window:       window,
		cycles:       cycles,
		logger:       logger,
		now:          time.Now,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

func (r *Runner) start() {
	go r.loop()
}

func (r *Runner) loop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// The first cycle fires on start rather than one interval later.
	r.tick()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick runs one scheduled cycle if the current hour is inside the active
// window. Cycles get a fresh context: stopping the runner never interrupts
// work that already started.
func (r *Runner) tick() {
	hour := r.now().Hour()
	if !r.window.Contains(hour) {
		r.logger.Debug("tick outside active window",
			slog.Int("tournament_id", r.tournamentID),
			slog.Int("hour", hour))
		return
	}

	info, err := r.cycles.Run(context.Background(), r.tournamentID, false)
	if err != nil {
		if errors.Is(err, services.ErrSyncInProgress) {
			r.logger.Debug("tick skipped, cycle already in flight",
				slog.Int("tournament_id", r.tournamentID))
			return
		}
		r.logger.Error("scheduled cycle failed",
			slog.Int("tournament_id", r.tournamentID),
			slog.String("error", err.Error()))
	}
	if info != nil {
		r.setLastRun(info)
	}
}

// stop prevents new cycles and returns without waiting for an in-flight one.
func (r *Runner) stop() {
	close(r.stopCh)
}

func (r *Runner) setLastRun(info *services.RunInfo) {
	r.mu.Lock()
	r.lastRun = info
	r.mu.Unlock()
}

func (r *Runner) status() *Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	window := r.window
	return &Status{
		TournamentID:    r.tournamentID,
		Running:         true,
		IntervalSeconds: int(r.interval / time.Second),
		Window:          &window,
		LastRun:         r.lastRun,
	}
}
