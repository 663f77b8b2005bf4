package notifier

import (
	"context"
	"errors"

	"github.com/foxseedlab/koebako/internal/notifier"
)

type Fanout []notifier.Notifier

func (f Fanout) Notify(ctx context.Context, msg notifier.Notification) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
