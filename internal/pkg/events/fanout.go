package events

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
)

// Fanout publishes every event to each publisher in order and joins the errors.
type Fanout []attendance.EventPublisher

func (f Fanout) Publish(ctx context.Context, event attendance.Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
