package voicetime

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/foxseedlab/koebako/internal/repository"
)

type Ledger struct {
	backend repository.Backend
	history []repository.HistoryEntry
	totals  map[repository.MemberID]int64

	pendingEntries []repository.HistoryEntry
	pendingTotals  map[repository.MemberID]struct{}

	// set after a failed load; totals only hold time accrued since then
	degraded bool
}

func NewLedger(backend repository.Backend) *Ledger {
	return &Ledger{
		backend:       backend,
		totals:        make(map[repository.MemberID]int64),
		pendingTotals: make(map[repository.MemberID]struct{}),
	}
}

// A read failure other than malformed data leaves the ledger degraded:
// nothing is written until a later load succeeds.
func (l *Ledger) Load(ctx context.Context) error {
	l.history = nil
	l.totals = make(map[repository.MemberID]int64)
	l.pendingEntries = nil
	l.pendingTotals = make(map[repository.MemberID]struct{})
	l.degraded = false

	snap, err := l.backend.Load(ctx)
	if err != nil && !errors.Is(err, repository.ErrMalformedData) {
		l.degraded = true
		return &StorageError{Op: "load", Err: err}
	}
	l.adopt(snap)
	if err != nil {
		return &StorageError{Op: "load", Err: err}
	}
	return nil
}

func (l *Ledger) adopt(snap repository.Snapshot) {
	l.history = append(l.history, snap.History...)
	for member, total := range snap.Totals {
		l.totals[member] = max(total, 0)
	}
}

// Nothing is flushed while degraded, so everything recorded is still pending.
func (l *Ledger) rebase(ctx context.Context) error {
	snap, err := l.backend.Load(ctx)
	if err != nil && !errors.Is(err, repository.ErrMalformedData) {
		return err
	}
	history := append(append([]repository.HistoryEntry(nil), snap.History...), l.history...)
	totals := make(map[repository.MemberID]int64, len(snap.Totals)+len(l.totals))
	for member, total := range snap.Totals {
		totals[member] = max(total, 0)
	}
	for member, accrued := range l.totals {
		totals[member] += accrued
		l.pendingTotals[member] = struct{}{}
	}
	l.history = history
	l.totals = totals
	l.degraded = false
	return nil
}

func (l *Ledger) Append(entry repository.HistoryEntry) {
	l.history = append(l.history, entry)
	l.pendingEntries = append(l.pendingEntries, entry)
}

func (l *Ledger) Accumulate(member repository.MemberID, deltaSeconds int64) {
	if deltaSeconds < 0 {
		deltaSeconds = 0
	}
	l.totals[member] += deltaSeconds
	l.pendingTotals[member] = struct{}{}
}

func (l *Ledger) Flush(ctx context.Context) error {
	if l.degraded {
		if err := l.rebase(ctx); err != nil {
			return &StorageError{Op: "flush", Err: fmt.Errorf("reload before write: %w", err)}
		}
	}
	c := l.pendingCommit()
	if c.Empty() {
		return nil
	}
	if err := l.backend.Persist(ctx, c); err != nil {
		return &StorageError{Op: "flush", Err: err}
	}
	l.pendingEntries = nil
	l.pendingTotals = make(map[repository.MemberID]struct{})
	return nil
}

func (l *Ledger) pendingCommit() repository.Commit {
	totals := make(map[repository.MemberID]int64, len(l.pendingTotals))
	for member := range l.pendingTotals {
		totals[member] = l.totals[member]
	}
	return repository.Commit{
		Entries: append([]repository.HistoryEntry(nil), l.pendingEntries...),
		Totals:  totals,
	}
}

func (l *Ledger) Degraded() bool {
	return l.degraded
}

func (l *Ledger) Pending() bool {
	return len(l.pendingEntries) > 0 || len(l.pendingTotals) > 0
}

func (l *Ledger) Total(member repository.MemberID) int64 {
	return l.totals[member]
}

func (l *Ledger) Totals() map[repository.MemberID]int64 {
	return maps.Clone(l.totals)
}

func (l *Ledger) HistoryLen() int {
	return len(l.history)
}

func (l *Ledger) Recent(limit int) []repository.HistoryEntry {
	if limit <= 0 {
		return nil
	}
	start := max(len(l.history)-limit, 0)
	return append([]repository.HistoryEntry(nil), l.history[start:]...)
}
