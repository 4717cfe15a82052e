package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-realm/internal/game"
)

// WorldEventsSubject carries every session event.
const WorldEventsSubject = "world-events"

// LocationSubject is the subject carrying events that touch one location.
func LocationSubject(locationID string) string {
	return fmt.Sprintf("location-%s", locationID)
}

// RawPublisher sends bytes to a subject.
type RawPublisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher fans session events out to the world subject and to the
// subjects of the locations they touch.
type NatsPublisher struct {
	raw RawPublisher
}

// NewNatsPublisher wraps a NatsServer (or any RawPublisher) for event delivery.
func NewNatsPublisher(raw RawPublisher) *NatsPublisher {
	return &NatsPublisher{raw: raw}
}

func (p *NatsPublisher) PublishEvent(ev game.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	subjects := []string{WorldEventsSubject}
	if ev.From != "" {
		subjects = append(subjects, LocationSubject(ev.From))
	}
	if ev.To != "" && ev.To != ev.From {
		subjects = append(subjects, LocationSubject(ev.To))
	}

	el := errors.NewErrorList()
	for _, subject := range subjects {
		if err := p.raw.Publish(subject, data); err != nil {
			el.Add(fmt.Errorf("publishing to %s: %w", subject, err))
		}
	}
	return el.Err()
}
