package voicetime

import (
	"fmt"
	"time"

	"github.com/foxseedlab/koebako/internal/notifier"
	"github.com/foxseedlab/koebako/internal/repository"
)

// 保存済みの履歴行と同じ書式を保つため、time.DateTime には依存させない
const historyTimeLayout = "2006-01-02 15:04:05"

type Member struct {
	ID          repository.MemberID
	DisplayName string
}

func (m Member) mention() string {
	return fmt.Sprintf("<@%s>", m.ID)
}

func (m Member) name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return string(m.ID)
}

func stayedSuffix(stayed *int64) string {
	if stayed == nil {
		return ""
	}
	return fmt.Sprintf(" (Stayed: %s)", FormatDuration(*stayed))
}

func historyLine(member Member, t Transition, stayed *int64, at time.Time, loc *time.Location) string {
	ts := at.In(safeLocation(loc)).Format(historyTimeLayout)
	switch t.Kind {
	case KindJoin:
		return fmt.Sprintf("[%s] %s joined %s", ts, member.name(), t.To.Name)
	case KindLeave:
		return fmt.Sprintf("[%s] %s left %s%s", ts, member.name(), t.From.Name, stayedSuffix(stayed))
	case KindMove:
		return fmt.Sprintf("[%s] %s moved from %s to %s%s", ts, member.name(), t.From.Name, t.To.Name, stayedSuffix(stayed))
	default:
		return ""
	}
}

func description(member Member, t Transition, stayed *int64) string {
	switch t.Kind {
	case KindJoin:
		return fmt.Sprintf(":loud_sound: **%s** joined **%s**", member.mention(), t.To.Name)
	case KindLeave:
		return fmt.Sprintf(":x: **%s** left **%s**%s", member.mention(), t.From.Name, stayedSuffix(stayed))
	case KindMove:
		return fmt.Sprintf(":arrow_right: **%s** moved from **%s** → **%s**%s", member.mention(), t.From.Name, t.To.Name, stayedSuffix(stayed))
	default:
		return ""
	}
}

func colorFor(k TransitionKind) int {
	switch k {
	case KindJoin:
		return notifier.ColorJoined
	case KindLeave:
		return notifier.ColorLeft
	default:
		return notifier.ColorMoved
	}
}

func buildNotification(member Member, t Transition, entry repository.HistoryEntry) notifier.Notification {
	return notifier.Notification{
		MemberID:    member.ID,
		MemberName:  member.name(),
		Action:      entry.Action,
		Color:       colorFor(t.Kind),
		Description: description(member, t, entry.StayedSeconds),
		Line:        entry.Line,
		At:          entry.Timestamp,
	}
}

func safeLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
