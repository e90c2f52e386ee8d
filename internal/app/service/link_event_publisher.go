package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/polylinkapp/polylink/internal/app/model"
)

// LinkEventPublisher announces link lifecycle changes on NATS JetStream.
type LinkEventPublisher struct {
	js nats.JetStreamContext
}

// NewLinkEventPublisher creates a publisher over the given JetStream context.
func NewLinkEventPublisher(js nats.JetStreamContext) *LinkEventPublisher {
	return &LinkEventPublisher{js: js}
}

// Publish emits one event for the given link.
func (p *LinkEventPublisher) Publish(eventType string, link *model.Link) error {
	event := model.LinkEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		LinkID:    link.ID.String(),
		Path:      link.Path,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.LinkStreamSubject, data)
	return err
}
