package voicetime

import (
	"time"

	"github.com/foxseedlab/koebako/internal/repository"
)

type SessionTracker struct {
	started map[repository.MemberID]time.Time
}

func NewSessionTracker() *SessionTracker {
	return &SessionTracker{started: make(map[repository.MemberID]time.Time)}
}

func (t *SessionTracker) Open(member repository.MemberID, at time.Time) {
	t.started[member] = at
}

func (t *SessionTracker) Close(member repository.MemberID, at time.Time) (int64, bool) {
	startedAt, ok := t.started[member]
	if !ok {
		return 0, false
	}
	delete(t.started, member)
	return elapsedSeconds(startedAt, at), true
}

func (t *SessionTracker) CurrentElapsed(member repository.MemberID, now time.Time) (int64, bool) {
	startedAt, ok := t.started[member]
	if !ok {
		return 0, false
	}
	return elapsedSeconds(startedAt, now), true
}

func (t *SessionTracker) IsOpen(member repository.MemberID) bool {
	_, ok := t.started[member]
	return ok
}

func (t *SessionTracker) Len() int {
	return len(t.started)
}

func elapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
