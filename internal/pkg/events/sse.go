package events

import (
	"context"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/sse"
)

// HubPublisher forwards events to stream subscribers of the shared topic and
// of the employee's own topic.
type HubPublisher struct {
	hub *sse.Hub
}

func NewHubPublisher(hub *sse.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(ctx context.Context, event attendance.Event) error {
	msg := sse.Event{Event: string(event.Type), Data: event}
	p.hub.Publish(sse.TopicAll, msg)
	p.hub.Publish(sse.EmployeeTopic(event.EmployeeID), msg)
	return nil
}
