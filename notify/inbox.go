package notify

import (
	"context"
	"fmt"

	"decor-marketplace-server/events"
	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
)

// InboxNotifier stores a notification for every party of a booking event
type InboxNotifier struct {
	notifications repository.NotificationRepository
}

func NewInboxNotifier(notifications repository.NotificationRepository) *InboxNotifier {
	return &InboxNotifier{notifications: notifications}
}

func (n *InboxNotifier) Publish(ctx context.Context, e events.Event) error {
	title, body := describe(e)
	if title == "" {
		return nil
	}

	recipients := e.Recipients()
	rows := make([]models.Notification, 0, len(recipients))
	for _, email := range recipients {
		rows = append(rows, models.Notification{
			UserEmail: email,
			BookingID: e.BookingID,
			Type:      e.Type,
			Title:     title,
			Body:      body,
		})
	}
	if err := n.notifications.CreateBatch(ctx, rows); err != nil {
		return fmt.Errorf("store notifications for booking %d: %w", e.BookingID, err)
	}
	return nil
}

func describe(e events.Event) (string, string) {
	switch e.Type {
	case models.EventCreated:
		return "Booking placed", fmt.Sprintf("%s booking #%d is waiting for payment.", e.ServiceName, e.BookingID)
	case models.EventPaid:
		return "Payment received", fmt.Sprintf("Booking #%d is paid. A decorator will be assigned soon.", e.BookingID)
	case models.EventAssigned:
		return "Decorator assigned", fmt.Sprintf("%s was assigned to booking #%d.", e.DecoratorEmail, e.BookingID)
	case models.EventAccepted:
		return "Assignment accepted", fmt.Sprintf("Booking #%d was accepted and planning can start.", e.BookingID)
	case models.EventRejected:
		return "Assignment rejected", fmt.Sprintf("Booking #%d is back in the assignment queue.", e.BookingID)
	case models.EventUnassigned:
		return "Decorator unavailable", fmt.Sprintf("The decorator on booking #%d is no longer available. A new one will be assigned.", e.BookingID)
	case models.EventStatusChanged:
		return "Progress update", fmt.Sprintf("Booking #%d is now %s.", e.BookingID, e.ServiceStatus)
	case models.EventCompleted:
		return "Decoration completed", fmt.Sprintf("Booking #%d is complete.", e.BookingID)
	case models.EventServiceDateSet:
		return "Service date set", fmt.Sprintf("Booking #%d is scheduled for %s.", e.BookingID, serviceDay(e))
	case models.EventReminder:
		return "Service tomorrow", fmt.Sprintf("%s for booking #%d is scheduled for %s.", e.ServiceName, e.BookingID, serviceDay(e))
	default:
		return "", ""
	}
}
