package service

import (
	"context"

	"notealog/pkg/events"
)

// IEventPublisher is satisfied by the NATS publisher. Services publish
// best-effort: a failed publish is logged, never returned.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type nopEventPublisher struct{}

func (nopEventPublisher) Publish(ctx context.Context, event events.Event) error { return nil }

// NopEventPublisher is used when NATS is not configured.
func NopEventPublisher() IEventPublisher {
	return nopEventPublisher{}
}
