package events

import (
	"context"
	"time"
)

const (
	TypeUserCreated = "user_created"
	TypeCVSaved     = "cv_saved"
)

// Event tells a signed-in browser that its loader data is stale.
type Event struct {
	Type string    `json:"type"`
	CVID string    `json:"cvId,omitempty"`
	At   time.Time `json:"at"`
}

func Channel(clerkID string) string {
	return "session:" + clerkID + ":events"
}

type Publisher interface {
	Publish(ctx context.Context, clerkID string, e Event) error
}

type Subscription interface {
	Messages() <-chan string
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, clerkID string) (Subscription, error)
}

// Nop drops events; used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
