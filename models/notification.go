package models

import "time"

// Notification is one entry in a user's in-app inbox
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserEmail string           `json:"userEmail" gorm:"size:255;not null;index"`
	BookingID uint             `json:"bookingId" gorm:"index"`
	Type      BookingEventType `json:"type" gorm:"size:40;not null"`
	Title     string           `json:"title" gorm:"size:255;not null"`
	Body      string           `json:"body" gorm:"type:text;not null"`
	Read      bool             `json:"read" gorm:"not null;default:false;index"`
	CreatedAt time.Time        `json:"createdAt" gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
