package repository

import (
	"testing"
	"time"

	"github.com/foxseedlab/koebako/internal/repository"
)

func TestHistoryRow_RoundTrip(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	stayed := int64(42)
	moved := repository.HistoryEntry{
		Timestamp:     time.Date(2026, 3, 1, 21, 0, 0, 0, jst),
		MemberID:      "111",
		MemberName:    "Alice",
		Action:        repository.ActionMoved,
		From:          &repository.Channel{ID: "vc-1", Name: "General"},
		To:            &repository.Channel{ID: "vc-2", Name: "Gaming"},
		StayedSeconds: &stayed,
		Line:          "[2026-03-01 12:00:00] Alice moved from General to Gaming (Stayed: 42s)",
	}

	row := toHistoryRow(moved)
	if row.OccurredAt.Location() != time.UTC || !row.OccurredAt.Equal(moved.Timestamp) {
		t.Fatalf("expected UTC occurred_at, got %v", row.OccurredAt)
	}
	if *row.FromChannelID != "vc-1" || *row.FromName != "General" || *row.ToChannelID != "vc-2" || *row.ToName != "Gaming" {
		t.Fatalf("unexpected channel columns: %+v", row)
	}

	got := row.entry()
	if !got.Timestamp.Equal(moved.Timestamp) || got.MemberID != "111" || got.MemberName != "Alice" || got.Action != repository.ActionMoved || got.Line != moved.Line {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if *got.From != *moved.From || *got.To != *moved.To || *got.StayedSeconds != 42 {
		t.Fatalf("unexpected channels or stayed: %+v", got)
	}
}

func TestHistoryRow_NullColumns(t *testing.T) {
	joined := repository.HistoryEntry{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		MemberID:  "111",
		Action:    repository.ActionJoined,
		To:        &repository.Channel{ID: "vc-1", Name: "General"},
		Line:      "joined",
	}
	row := toHistoryRow(joined)
	if row.FromChannelID != nil || row.FromName != nil || row.StayedSeconds != nil {
		t.Fatalf("expected NULL from/stayed columns, got %+v", row)
	}
	got := row.entry()
	if got.From != nil || got.StayedSeconds != nil || got.To == nil || got.To.ID != "vc-1" {
		t.Fatalf("unexpected entry: %+v", got)
	}

	id := "vc-9"
	if ch := channelOrNil(&id, nil); ch == nil || ch.ID != "vc-9" || ch.Name != "" {
		t.Fatalf("expected channel without a name, got %+v", ch)
	}
}
