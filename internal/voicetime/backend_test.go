package voicetime

import (
	"context"
	"errors"
	"sync"

	"github.com/foxseedlab/koebako/internal/notifier"
	"github.com/foxseedlab/koebako/internal/repository"
)

type memoryBackend struct {
	mu         sync.Mutex
	history    []repository.HistoryEntry
	totals     map[repository.MemberID]int64
	commits    []repository.Commit
	loadErr    error
	persistErr error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{totals: make(map[repository.MemberID]int64)}
}

func (b *memoryBackend) Load(_ context.Context) (repository.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadErr != nil {
		return repository.Snapshot{}, b.loadErr
	}
	totals := make(map[repository.MemberID]int64, len(b.totals))
	for k, v := range b.totals {
		totals[k] = v
	}
	return repository.Snapshot{
		History: append([]repository.HistoryEntry(nil), b.history...),
		Totals:  totals,
	}, nil
}

func (b *memoryBackend) Persist(_ context.Context, c repository.Commit) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.persistErr != nil {
		return b.persistErr
	}
	b.commits = append(b.commits, c)
	b.history = append(b.history, c.Entries...)
	for k, v := range c.Totals {
		b.totals[k] = v
	}
	return nil
}

func (b *memoryBackend) Close() error { return nil }

func (b *memoryBackend) setPersistErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.persistErr = err
}

var errDiskFull = errors.New("disk full")

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifier.Notification
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, msg notifier.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, msg)
	return n.err
}
