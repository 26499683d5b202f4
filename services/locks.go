package services

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// TournamentLocks serializes recalculation work per tournament. Scheduled
// cycles, manual syncs and bonus-scoped recalculations all acquire the same
// lock, so no two recomputations for one tournament ever run concurrently.
// Different tournaments proceed independently.
type TournamentLocks struct {
	mu    sync.Mutex
	locks map[int]*semaphore.Weighted
}

func NewTournamentLocks() *TournamentLocks {
	return &TournamentLocks{locks: make(map[int]*semaphore.Weighted)}
}

func (l *TournamentLocks) forTournament(tournamentID int) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.locks[tournamentID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.locks[tournamentID] = sem
	}
	return sem
}

// Acquire takes the tournament's lock and returns the release function. With
// wait false, a held lock returns ErrSyncInProgress immediately; with wait
// true the call queues behind the holder (or fails when ctx is done).
func (l *TournamentLocks) Acquire(ctx context.Context, tournamentID int, wait bool) (func(), error) {
	sem := l.forTournament(tournamentID)
	if wait {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	} else if !sem.TryAcquire(1) {
		return nil, ErrSyncInProgress
	}
	return func() { sem.Release(1) }, nil
}
