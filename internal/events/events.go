// Package events publishes account lifecycle events to downstream consumers.
//
// Publishing is best effort: the account service logs a failed publish and
// carries on, because the user and credential are already persisted by then.
package events

import (
	"context"
	"time"
)

// TypeUserRegistered is emitted after a successful signup.
const TypeUserRegistered = "user.registered"

// Event is the wire payload. It never carries credential material.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
