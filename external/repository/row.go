package repository

import (
	"time"

	"github.com/foxseedlab/koebako/internal/repository"
)

type historyRow struct {
	OccurredAt    time.Time
	MemberID      string
	MemberName    string
	Action        string
	FromChannelID *string
	FromName      *string
	ToChannelID   *string
	ToName        *string
	StayedSeconds *int64
	Line          string
}

func toHistoryRow(e repository.HistoryEntry) historyRow {
	r := historyRow{
		OccurredAt:    e.Timestamp.UTC(),
		MemberID:      string(e.MemberID),
		MemberName:    e.MemberName,
		Action:        string(e.Action),
		StayedSeconds: e.StayedSeconds,
		Line:          e.Line,
	}
	if e.From != nil {
		r.FromChannelID, r.FromName = &e.From.ID, &e.From.Name
	}
	if e.To != nil {
		r.ToChannelID, r.ToName = &e.To.ID, &e.To.Name
	}
	return r
}

func (r historyRow) entry() repository.HistoryEntry {
	return repository.HistoryEntry{
		Timestamp:     r.OccurredAt,
		MemberID:      repository.MemberID(r.MemberID),
		MemberName:    r.MemberName,
		Action:        repository.Action(r.Action),
		From:          channelOrNil(r.FromChannelID, r.FromName),
		To:            channelOrNil(r.ToChannelID, r.ToName),
		StayedSeconds: r.StayedSeconds,
		Line:          r.Line,
	}
}

func channelOrNil(id, name *string) *repository.Channel {
	if id == nil {
		return nil
	}
	ch := &repository.Channel{ID: *id}
	if name != nil {
		ch.Name = *name
	}
	return ch
}
