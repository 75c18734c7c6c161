package models

import "time"

type BookingEventType string

const (
	EventCreated        BookingEventType = "booking.created"
	EventPaid           BookingEventType = "booking.paid"
	EventAssigned       BookingEventType = "booking.assigned"
	EventAccepted       BookingEventType = "booking.accepted"
	EventRejected       BookingEventType = "booking.rejected"
	EventUnassigned     BookingEventType = "booking.unassigned"
	EventStatusChanged  BookingEventType = "booking.status_changed"
	EventCompleted      BookingEventType = "booking.completed"
	EventCancelled      BookingEventType = "booking.cancelled"
	EventServiceDateSet BookingEventType = "booking.service_date_set"
	EventReminder       BookingEventType = "booking.reminder"
)

// BookingEvent is an append-only audit row written alongside each booking mutation.
type BookingEvent struct {
	ID         uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingID  uint             `json:"bookingId" gorm:"not null;index"`
	Type       BookingEventType `json:"type" gorm:"size:40;not null"`
	FromStatus ServiceStatus    `json:"fromStatus,omitempty" gorm:"size:32"`
	ToStatus   ServiceStatus    `json:"toStatus,omitempty" gorm:"size:32"`
	ActorEmail string           `json:"actorEmail" gorm:"size:255;not null"`
	Note       string           `json:"note,omitempty" gorm:"type:text"`
	CreatedAt  time.Time        `json:"createdAt" gorm:"autoCreateTime"`
}

func (BookingEvent) TableName() string {
	return "booking_events"
}
