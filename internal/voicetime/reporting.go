package voicetime

import (
	"time"

	"github.com/foxseedlab/koebako/internal/repository"
)

func (e *Engine) RecentHistory(limit int) ([]repository.HistoryEntry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger.HistoryLen() == 0 {
		return nil, ErrNoHistory
	}
	return e.ledger.Recent(limit), nil
}

func (e *Engine) LiveTotal(member repository.MemberID, now time.Time) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := e.ledger.Total(member)
	if elapsed, ok := e.tracker.CurrentElapsed(member, now); ok {
		total += elapsed
	}
	return total
}

func (e *Engine) IsPresent(member repository.MemberID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.IsOpen(member)
}

func (e *Engine) Totals() map[repository.MemberID]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Totals()
}
