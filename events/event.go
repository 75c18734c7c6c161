package events

import (
	"time"

	"decor-marketplace-server/commission"
	"decor-marketplace-server/models"
)

// Event is the payload published for every booking lifecycle change
type Event struct {
	Type            models.BookingEventType `json:"type"`
	BookingID       uint                    `json:"bookingId"`
	ServiceName     string                  `json:"serviceName"`
	ServiceCategory string                  `json:"serviceCategory"`
	Price           float64                 `json:"price"`
	PaymentStatus   models.PaymentStatus    `json:"paymentStatus"`
	ServiceStatus   models.ServiceStatus    `json:"serviceStatus"`
	UserEmail       string                  `json:"userEmail"`
	DecoratorEmail  string                  `json:"decoratorEmail,omitempty"`
	ServiceDate     *time.Time              `json:"serviceDate,omitempty"`
	Settlement      *commission.Settlement  `json:"settlement,omitempty"`
	Note            string                  `json:"note,omitempty"`
	OccurredAt      time.Time               `json:"occurredAt"`
}

// FromBooking snapshots a booking into an event
func FromBooking(eventType models.BookingEventType, b *models.Booking, at time.Time) Event {
	return Event{
		Type:            eventType,
		BookingID:       b.ID,
		ServiceName:     b.ServiceName,
		ServiceCategory: b.ServiceCategory,
		Price:           b.Price,
		PaymentStatus:   b.PaymentStatus,
		ServiceStatus:   b.ServiceStatus,
		UserEmail:       b.UserEmail,
		DecoratorEmail:  b.DecoratorEmailValue(),
		ServiceDate:     b.ServiceDate,
		OccurredAt:      at,
	}
}

// RoutingKey is the topic the event is published under
func (e Event) RoutingKey() string {
	return string(e.Type)
}

// Recipients returns the distinct emails that should hear about the event
func (e Event) Recipients() []string {
	var out []string
	if e.UserEmail != "" {
		out = append(out, e.UserEmail)
	}
	if e.DecoratorEmail != "" && e.DecoratorEmail != e.UserEmail {
		out = append(out, e.DecoratorEmail)
	}
	return out
}
