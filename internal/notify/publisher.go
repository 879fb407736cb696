// Package notify publishes a completion event for every finished video so
// downstream systems (feed builders, social schedulers) can react without
// polling the media library. Publishing is fire-and-forget.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
)

// VideoCreatedEvent announces a finished blog video.
type VideoCreatedEvent struct {
	RequestID       string  `json:"request_id"`
	PostID          string  `json:"post_id"`
	Title           string  `json:"title"`
	VideoURL        string  `json:"video_url"`
	ArchiveKey      string  `json:"archive_key,omitempty"`
	Slides          int     `json:"slides"`
	DurationSeconds float64 `json:"duration_seconds"`
	CreatedAt       string  `json:"created_at"`
}

// Publisher publishes VideoCreatedEvent messages on a NATS subject.
type Publisher struct {
	natsConnection *nats.Conn
	log            *logger.Logger
	subject        string
}

// NewPublisher creates a publisher for the given subject.
func NewPublisher(natsConnection *nats.Conn, subject string, log *logger.Logger) *Publisher {
	return &Publisher{
		natsConnection: natsConnection,
		log:            log,
		subject:        subject,
	}
}

// Publish sends the event. The timestamp is stamped here so callers only fill
// in the domain fields.
func (p *Publisher) Publish(event VideoCreatedEvent) error {
	event.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal video created event: %w", err)
	}

	err = p.natsConnection.Publish(p.subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish video created event: %w", err)
	}

	p.log.Info("Published video created event for post %s on %s", event.PostID, p.subject)

	return nil
}
