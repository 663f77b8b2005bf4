package repository

import "time"

type MemberID string

type Channel struct {
	ID   string
	Name string
}

type Action string

const (
	ActionJoined Action = "Joined"
	ActionLeft   Action = "Left"
	ActionMoved  Action = "Moved"
)

type HistoryEntry struct {
	Timestamp     time.Time
	MemberID      MemberID
	MemberName    string
	Action        Action
	From          *Channel
	To            *Channel
	StayedSeconds *int64
	Line          string
}

type Snapshot struct {
	History []HistoryEntry
	Totals  map[MemberID]int64
}

// Totals holds absolute values, not deltas.
type Commit struct {
	Entries []HistoryEntry
	Totals  map[MemberID]int64
}

func (c Commit) Empty() bool {
	return len(c.Entries) == 0 && len(c.Totals) == 0
}
