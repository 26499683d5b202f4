package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RunOutcome classifies one completed cycle.
type RunOutcome string

const (
	RunSuccess RunOutcome = "success"
	RunPartial RunOutcome = "partial"
	RunFailed  RunOutcome = "failed"
)

// RunInfo is the retained diagnostic record of one fetch-and-recalculate
// cycle.
type RunInfo struct {
	ID           uuid.UUID      `json:"id"`
	TournamentID int            `json:"tournament_id"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	RoundID      int            `json:"round_id"`
	Outcome      RunOutcome     `json:"outcome"`
	Message      string         `json:"message"`
	Recalculated int            `json:"recalculated"`
	Failures     []EntryFailure `json:"failures,omitempty"`
}

// LeaderboardBroadcaster pushes a committed leaderboard to live subscribers.
type LeaderboardBroadcaster interface {
	BroadcastLeaderboard(tournamentID int, board *PoolLeaderboard)
}

// CycleArchiver persists the leaderboard produced by a cycle to long-term
// storage.
type CycleArchiver interface {
	ArchiveCycle(ctx context.Context, tournamentID int, runID string, board *PoolLeaderboard) error
}

// CycleRunner executes the full fetch, recalculate, snapshot sequence under
// the tournament lock. Scheduled ticks and manual syncs both go through here,
// so a tournament only ever has one cycle in flight.
type CycleRunner struct {
	sync        *SyncService
	calculator  *CalculatorService
	leaderboard *LeaderboardService
	locks       *TournamentLocks
	broadcaster LeaderboardBroadcaster
	archiver    CycleArchiver
	logger      *slog.Logger
}

// NewCycleRunner wires the runner. broadcaster and archiver may be nil.
func NewCycleRunner(
	sync *SyncService,
	calculator *CalculatorService,
	leaderboard *LeaderboardService,
	locks *TournamentLocks,
	broadcaster LeaderboardBroadcaster,
	archiver CycleArchiver,
	logger *slog.Logger,
) *CycleRunner {
	return &CycleRunner{
		sync:        sync,
		calculator:  calculator,
		leaderboard: leaderboard,
		locks:       locks,
		broadcaster: broadcaster,
		archiver:    archiver,
		logger:      logger,
	}
}

// Run performs one cycle. With wait false a held lock yields
// ErrSyncInProgress; errors other than lock rejection are also captured in
// the returned RunInfo so schedulers can retain a diagnostic.
func (r *CycleRunner) Run(ctx context.Context, tournamentID int, wait bool) (*RunInfo, error) {
	release, err := r.locks.Acquire(ctx, tournamentID, wait)
	if err != nil {
		return nil, err
	}

	info := &RunInfo{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		StartedAt:    time.Now().UTC(),
	}

	snapshot, err := r.sync.syncLocked(ctx, tournamentID)
	if err != nil {
		release()
		info.FinishedAt = time.Now().UTC()
		info.Outcome = RunFailed
		info.Message = err.Error()
		return info, err
	}
	info.RoundID = snapshot.RoundID

	result, err := r.calculator.calculateLocked(ctx, tournamentID, &snapshot.RoundID, nil)
	release()
	info.FinishedAt = time.Now().UTC()
	if err != nil {
		info.Outcome = RunFailed
		info.Message = err.Error()
		return info, err
	}

	info.Recalculated = result.Recalculated
	info.Failures = result.Failures
	if result.Partial() {
		info.Outcome = RunPartial
		info.Message = fmt.Sprintf("recalculated %d entries, %d failed", result.Recalculated, len(result.Failures))
	} else {
		info.Outcome = RunSuccess
		info.Message = fmt.Sprintf("recalculated %d entries", result.Recalculated)
	}

	r.publish(ctx, tournamentID, info)
	return info, nil
}

// publish delivers the committed leaderboard to the live hub and the archive.
// Both are best-effort: delivery problems never fail a committed cycle.
func (r *CycleRunner) publish(ctx context.Context, tournamentID int, info *RunInfo) {
	if r.broadcaster == nil && r.archiver == nil {
		return
	}
	board, err := r.leaderboard.Leaderboard(ctx, tournamentID)
	if err != nil {
		r.logger.Warn("leaderboard build after cycle failed",
			slog.Int("tournament_id", tournamentID),
			slog.String("error", err.Error()))
		return
	}
	if r.broadcaster != nil {
		r.broadcaster.BroadcastLeaderboard(tournamentID, board)
	}
	if r.archiver != nil {
		if err := r.archiver.ArchiveCycle(ctx, tournamentID, info.ID.String(), board); err != nil {
			r.logger.Warn("cycle archive failed",
				slog.Int("tournament_id", tournamentID),
				slog.String("run_id", info.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}
