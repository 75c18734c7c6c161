package websocket

import (
	"context"

	"decor-marketplace-server/events"
)

// Notifier pushes booking events to the client and decorator named on them
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Publish(_ context.Context, e events.Event) error {
	msg := &Message{
		Type:      MessageBookingEvent,
		Event:     string(e.Type),
		BookingID: e.BookingID,
		Timestamp: e.OccurredAt,
		Data:      e,
	}
	for _, email := range e.Recipients() {
		n.hub.SendToUser(email, msg)
	}
	return nil
}
