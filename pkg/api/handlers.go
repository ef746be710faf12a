package api

import (
	"context"

	"github.com/centrosocial/centro-api/pkg/domain"
	"github.com/centrosocial/centro-api/pkg/events"
	"github.com/centrosocial/centro-api/pkg/telegram"
)

// Notifier delivers a human-readable message to the configured chat
// destination.
type Notifier interface {
	Send(ctx context.Context, text string) (*telegram.Receipt, error)
}

// Handler provides HTTP handlers for the CRUD API
type Handler struct {
	storage  domain.StorageEngine
	notifier Notifier
	bus      events.Bus
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(storage domain.StorageEngine, notifier Notifier, bus events.Bus) *Handler {
	return &Handler{
		storage:  storage,
		notifier: notifier,
		bus:      bus,
	}
}
