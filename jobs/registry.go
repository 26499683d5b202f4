package jobs

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fairwayfive/golf-pool/services"
)

// Registry owns one scheduler runner per tournament. All lifecycle state
// lives here; runners are created by Start and discarded by Stop. On process
// restart every scheduler is stopped until explicitly restarted.
type Registry struct {
	cycles      CycleService
	minInterval time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	runners map[int]*Runner
}

func NewRegistry(cycles CycleService, minInterval time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		cycles:      cycles,
		minInterval: minInterval,
		runners:     make(map[int]*Runner),
		logger:      logger,
	}
}

// Start launches a scheduler for the tournament. Intervals below the
// configured minimum are rejected to protect provider rate limits.
func (r *Registry) Start(tournamentID int, interval time.Duration, startHour, stopHour int) error {
	if tournamentID <= 0 {
		return fmt.Errorf("%w: tournament id must be positive", services.ErrInvalidJobConfig)
	}
	if interval < r.minInterval {
		return fmt.Errorf("%w: interval %s is below the minimum %s",
			services.ErrInvalidJobConfig, interval, r.minInterval)
	}
	if startHour < 0 || startHour > 23 || stopHour < 0 || stopHour > 23 {
		return fmt.Errorf("%w: hours must be between 0 and 23", services.ErrInvalidJobConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runners[tournamentID]; exists {
		return services.ErrJobAlreadyRunning
	}

	runner := newRunner(tournamentID, interval, Window{StartHour: startHour, StopHour: stopHour}, r.cycles, r.logger)
	r.runners[tournamentID] = runner
	runner.start()

	r.logger.Info("scheduler started",
		slog.Int("tournament_id", tournamentID),
		slog.Duration("interval", interval),
		slog.Int("start_hour", startHour),
		slog.Int("stop_hour", stopHour))
	return nil
}

// Stop shuts the tournament's scheduler down. It returns as soon as future
// ticks are cancelled; an in-flight cycle finishes on its own.
func (r *Registry) Stop(tournamentID int) error {
	r.mu.Lock()
	runner, exists := r.runners[tournamentID]
	if exists {
		delete(r.runners, tournamentID)
	}
	r.mu.Unlock()

	if !exists {
		return services.ErrJobNotRunning
	}
	runner.stop()
	r.logger.Info("scheduler stopped", slog.Int("tournament_id", tournamentID))
	return nil
}

// Status reports the scheduler state for one tournament. A tournament with
// no runner reports Running false.
func (r *Registry) Status(tournamentID int) *Status {
	r.mu.Lock()
	runner, exists := r.runners[tournamentID]
	r.mu.Unlock()

	if !exists {
		return &Status{TournamentID: tournamentID, Running: false}
	}
	return runner.status()
}

// StatusAll reports every running scheduler.
func (r *Registry) StatusAll() []*Status {
	r.mu.Lock()
	runners := make([]*Runner, 0, len(r.runners))
	for _, runner := range r.runners {
		runners = append(runners, runner)
	}
	r.mu.Unlock()

	statuses := make([]*Status, 0, len(runners))
	for _, runner := range runners {
		statuses = append(statuses, runner.status())
	}
	return statuses
}

// StopAll cancels every scheduler, used on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	runners := r.runners
	r.runners = make(map[int]*Runner)
	r.mu.Unlock()

	for _, runner := range runners {
		runner.stop()
	}
}
