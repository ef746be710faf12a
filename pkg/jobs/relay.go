package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/centrosocial/centro-api/pkg/events"
)

// RelayResult records one delivery of the basic notification job
type RelayResult struct {
	Enviado           bool   `json:"enviado"`
	Mensaje           string `json:"mensaje"`
	TelegramMessageID int64  `json:"telegramMessageId"`
}

// RunBasicNotification formats the event's message payload and relays it to
// the chat destination.
func (s *Service) RunBasicNotification(ctx context.Context, e events.Event) (*RelayResult, error) {
	message := eventMessage(e)

	receipt, err := s.notifier.Send(ctx, "📬 *Notificación Básica*\n\n"+message)
	if err != nil {
		return nil, fmt.Errorf("basic notification delivery failed: %w", err)
	}

	return &RelayResult{
		Enviado:           true,
		Mensaje:           message,
		TelegramMessageID: receipt.Result.MessageID,
	}, nil
}

// eventMessage extracts a human-readable message from an event payload,
// falling back to a JSON rendering for unknown payload shapes.
func eventMessage(e events.Event) string {
	switch data := e.Data.(type) {
	case events.QueryData:
		return data.Message
	case *events.QueryData:
		return data.Message
	}

	if encoded, err := json.Marshal(e.Data); err == nil {
		return string(encoded)
	}
	return fmt.Sprintf("%v", e.Data)
}
