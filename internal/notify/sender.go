package notify

import (
	"context"
	"log"

	"canteenq/internal/assistant"
	"canteenq/internal/domain"
	"canteenq/internal/kafka"
)

type Drafter interface {
	DraftNotification(ctx context.Context, token domain.Token, channel string) string
}

// Sender turns READY events into customer notifications. Delivery is a log
// line standing in for the messaging integration.
type Sender struct {
	drafter Drafter
}

func NewSender(drafter Drafter) *Sender {
	return &Sender{drafter: drafter}
}

func (s *Sender) Send(ctx context.Context, event kafka.TokenEvent) error {
	if event.Status != string(domain.StatusReady) {
		return nil
	}
	token := domain.Token{
		ID:           event.TokenID,
		CustomerName: event.CustomerName,
		PhoneNumber:  event.PhoneNumber,
		Status:       domain.TokenStatus(event.Status),
	}
	message := s.drafter.DraftNotification(ctx, token, assistant.ChannelWhatsApp)
	log.Printf("notify %s at %s about token %d: %s", event.CustomerName, event.PhoneNumber, event.TokenID, message)
	return nil
}
