package services

import (
	"context"

	"digital-library/internal/core/domain"
)

// LendingEventPublisher is notified after a borrow or return has been committed.
// Implementations must not block the caller on delivery failures.
type LendingEventPublisher interface {
	Publish(ctx context.Context, event domain.LendingEvent)
}

// NoopEventPublisher discards every event
type NoopEventPublisher struct{}

// Publish does nothing
func (NoopEventPublisher) Publish(context.Context, domain.LendingEvent) {}

// ExternalCatalog searches a library outside this service
type ExternalCatalog interface {
	Search(ctx context.Context, query string, page, limit int) (*domain.ExternalSearchResult, error)
}
