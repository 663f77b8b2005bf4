package notifier

import (
	"context"
	"time"

	"github.com/foxseedlab/koebako/internal/repository"
)

const (
	ColorJoined  = 0x2ecc71
	ColorLeft    = 0xe74c3c
	ColorMoved   = 0xe67e22
	ColorHistory = 0x9b59b6
	ColorStats   = 0xf1c40f
)

type Notification struct {
	MemberID    repository.MemberID
	MemberName  string
	Action      repository.Action
	Color       int
	Description string
	Line        string
	At          time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
