package voicetime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/koebako/internal/metrics"
	"github.com/foxseedlab/koebako/internal/notifier"
	"github.com/foxseedlab/koebako/internal/repository"
)

type PresenceTransition struct {
	Member Member
	Before *repository.Channel
	After  *repository.Channel
	At     time.Time
}

type Outcome struct {
	Transition   Transition
	Entry        repository.HistoryEntry
	Notification notifier.Notification
	Stayed       *int64
}

func (o Outcome) NoOp() bool {
	return o.Transition.Kind == KindNoOp
}

type Options struct {
	Location     *time.Location
	FlushTimeout time.Duration
	Notifier     notifier.Notifier
	Metrics      metrics.Recorder
}

type Engine struct {
	mu      sync.Mutex
	tracker *SessionTracker
	ledger  *Ledger

	loc          *time.Location
	flushTimeout time.Duration
	notifier     notifier.Notifier
	metrics      metrics.Recorder
}

func NewEngine(backend repository.Backend, opts Options) *Engine {
	e := &Engine{
		tracker:      NewSessionTracker(),
		ledger:       NewLedger(backend),
		loc:          safeLocation(opts.Location),
		flushTimeout: opts.FlushTimeout,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
	}
	if e.metrics == nil {
		e.metrics = metrics.Noop{}
	}
	return e
}

// Open sessions are never restored.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracker = NewSessionTracker()
	return e.ledger.Load(ctx)
}

func (e *Engine) Process(ctx context.Context, pt PresenceTransition) (Outcome, error) {
	t := Classify(pt.Before, pt.After)
	if t.Kind == KindNoOp {
		return Outcome{Transition: t}, nil
	}

	out, err := e.apply(ctx, pt, t)
	if err != nil {
		e.metrics.FlushFailed()
		return out, err
	}
	e.metrics.TransitionProcessed(string(out.Entry.Action))

	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, out.Notification); err != nil {
			e.metrics.NotificationFailed()
			slog.Warn("failed to send voice notification", "error", err, "member_id", pt.Member.ID, "action", out.Entry.Action)
		}
	}
	return out, nil
}

func (e *Engine) apply(ctx context.Context, pt PresenceTransition, t Transition) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stayed *int64
	switch t.Kind {
	case KindJoin:
		e.tracker.Open(pt.Member.ID, pt.At)
	case KindLeave:
		stayed = e.closeSession(pt.Member.ID, pt.At)
	case KindMove:
		stayed = e.closeSession(pt.Member.ID, pt.At)
		e.tracker.Open(pt.Member.ID, pt.At)
	}
	e.metrics.OpenSessions(e.tracker.Len())

	entry := repository.HistoryEntry{
		Timestamp:     pt.At,
		MemberID:      pt.Member.ID,
		MemberName:    pt.Member.name(),
		Action:        t.action(),
		From:          t.From,
		To:            t.To,
		StayedSeconds: stayed,
		Line:          historyLine(pt.Member, t, stayed, pt.At, e.loc),
	}
	e.ledger.Append(entry)

	out := Outcome{
		Transition:   t,
		Entry:        entry,
		Notification: buildNotification(pt.Member, t, entry),
		Stayed:       stayed,
	}
	return out, e.flush(ctx)
}

func (e *Engine) closeSession(member repository.MemberID, at time.Time) *int64 {
	stayed, ok := e.tracker.Close(member, at)
	if !ok {
		return nil
	}
	e.ledger.Accumulate(member, stayed)
	return &stayed
}

func (e *Engine) flush(ctx context.Context) error {
	if e.flushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.flushTimeout)
		defer cancel()
	}
	err := e.ledger.Flush(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		slog.Error("persistence flush timed out", "timeout", e.flushTimeout)
	}
	return err
}
