package models

import "time"

type CheckoutStatus string

const (
	CheckoutOpen     CheckoutStatus = "open"
	CheckoutComplete CheckoutStatus = "complete"
	CheckoutExpired  CheckoutStatus = "expired"
)

// CheckoutSession is the pending transaction created before redirecting to the gateway
type CheckoutSession struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	SessionID     string         `json:"sessionId" gorm:"size:128;uniqueIndex;not null"`
	BookingID     uint           `json:"bookingId" gorm:"not null;index"`
	CustomerEmail string         `json:"customerEmail" gorm:"size:255;not null"`
	ServiceName   string         `json:"serviceName" gorm:"size:255"`
	Amount        float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency      string         `json:"currency" gorm:"size:8;not null"`
	URL           string         `json:"url" gorm:"type:text"`
	Status        CheckoutStatus `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	ExpiresAt     time.Time      `json:"expiresAt" gorm:"index"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}

// IsExpired checks the session against the given time
func (s *CheckoutSession) IsExpired(at time.Time) bool {
	return s.Status == CheckoutExpired || (s.Status == CheckoutOpen && !s.ExpiresAt.IsZero() && at.After(s.ExpiresAt))
}

// Payment is written once when a checkout session is confirmed and never updated
type Payment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	BookingID     uint      `json:"bookingId" gorm:"uniqueIndex;not null"`
	SessionID     string    `json:"sessionId" gorm:"size:128;uniqueIndex;not null"`
	CustomerEmail string    `json:"customerEmail" gorm:"size:255;not null;index"`
	ServiceName   string    `json:"serviceName" gorm:"size:255"`
	Amount        float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency      string    `json:"currency" gorm:"size:8;not null"`
	TransactionID string    `json:"transactionId" gorm:"size:128;not null"`
	TrackingID    string    `json:"trackingId" gorm:"size:64;not null"`
	PaidAt        time.Time `json:"paidAt" gorm:"not null"`
}

func (Payment) TableName() string {
	return "payments"
}

// CheckoutRequest is the body of the checkout session endpoint.
// Price is accepted for compatibility but the booking snapshot is charged.
type CheckoutRequest struct {
	BookingID   uint    `json:"bookingId" binding:"required"`
	Price       float64 `json:"price"`
	ServiceName string  `json:"serviceName"`
}
