package models

import "time"

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type DecoratorResponse string

const (
	ResponseUnset    DecoratorResponse = ""
	ResponsePending  DecoratorResponse = "pending"
	ResponseAccepted DecoratorResponse = "accepted"
	ResponseRejected DecoratorResponse = "rejected"
)

type ServiceStatus string

const (
	StatusPending           ServiceStatus = "pending"
	StatusPlanning          ServiceStatus = "planning"
	StatusMaterialsPrepared ServiceStatus = "materials-prepared"
	StatusOnTheWay          ServiceStatus = "on-the-way"
	StatusSetupInProgress   ServiceStatus = "setup-in-progress"
	StatusCompleted         ServiceStatus = "completed"
)

// serviceStatusOrder is the only path a booking can take.
var serviceStatusOrder = []ServiceStatus{
	StatusPending,
	StatusPlanning,
	StatusMaterialsPrepared,
	StatusOnTheWay,
	StatusSetupInProgress,
	StatusCompleted,
}

// ServiceStatuses returns the pipeline in order
func ServiceStatuses() []ServiceStatus {
	out := make([]ServiceStatus, len(serviceStatusOrder))
	copy(out, serviceStatusOrder)
	return out
}

func (s ServiceStatus) index() int {
	for i, st := range serviceStatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s ServiceStatus) IsValid() bool {
	return s.index() >= 0
}

func (s ServiceStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// Next returns the immediate successor, false when s is terminal or unknown
func (s ServiceStatus) Next() (ServiceStatus, bool) {
	i := s.index()
	if i < 0 || i == len(serviceStatusOrder)-1 {
		return "", false
	}
	return serviceStatusOrder[i+1], true
}

// Precedes reports whether s comes strictly before other in the pipeline
func (s ServiceStatus) Precedes(other ServiceStatus) bool {
	i, j := s.index(), other.index()
	return i >= 0 && j >= 0 && i < j
}

func (r DecoratorResponse) IsValid() bool {
	switch r {
	case ResponseUnset, ResponsePending, ResponseAccepted, ResponseRejected:
		return true
	default:
		return false
	}
}

// Booking is a client's order for one decoration package.
// Service fields are a snapshot taken at creation time.
type Booking struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	UserEmail       string  `json:"userEmail" gorm:"size:255;not null;index"`
	UserName        string  `json:"userName" gorm:"size:255"`
	ServiceID       uint    `json:"serviceId" gorm:"not null;index"`
	ServiceName     string  `json:"serviceName" gorm:"size:255;not null"`
	ServiceCategory string  `json:"serviceCategory" gorm:"size:100;not null;index"`
	Price           float64 `json:"price" gorm:"type:decimal(12,2);not null"`

	Location string `json:"location" gorm:"type:text;not null"`
	Region   string `json:"region" gorm:"size:100;not null"`
	District string `json:"district" gorm:"size:100;not null;index"`

	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'unpaid';index"`
	TrackingID    *string       `json:"trackingId,omitempty" gorm:"size:64;uniqueIndex"`
	TransactionID *string       `json:"transactionId,omitempty" gorm:"size:128"`

	DecoratorID       *uint             `json:"decoratorId,omitempty" gorm:"index"`
	DecoratorName     *string           `json:"decoratorName,omitempty" gorm:"size:255"`
	DecoratorEmail    *string           `json:"decoratorEmail,omitempty" gorm:"size:255;index"`
	DecoratorResponse DecoratorResponse `json:"decoratorResponse,omitempty" gorm:"type:varchar(20)"`

	ServiceStatus ServiceStatus `json:"serviceStatus" gorm:"type:varchar(32);not null;default:'pending';index"`
	ServiceDate   *time.Time    `json:"serviceDate,omitempty" gorm:"index"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

func (b *Booking) IsCompleted() bool {
	return b.ServiceStatus == StatusCompleted
}

func (b *Booking) HasDecorator() bool {
	return b.DecoratorID != nil
}

// AssignedTo reports whether the booking is assigned to the decorator with this email
func (b *Booking) AssignedTo(email string) bool {
	return b.DecoratorEmail != nil && *b.DecoratorEmail == NormalizeEmail(email)
}

// InEscrow reports whether the booking is paid but not yet delivered
func (b *Booking) InEscrow() bool {
	return b.IsPaid() && !b.IsCompleted()
}

// Settleable reports whether commission can be computed for the booking
func (b *Booking) Settleable() bool {
	return b.IsPaid() && b.IsCompleted()
}

// ClearDecorator returns the booking to the unassigned pool
func (b *Booking) ClearDecorator() {
	b.DecoratorID = nil
	b.DecoratorName = nil
	b.DecoratorEmail = nil
	b.DecoratorResponse = ResponseUnset
}

// DecoratorEmailValue returns the assigned decorator email or an empty string
func (b *Booking) DecoratorEmailValue() string {
	if b.DecoratorEmail == nil {
		return ""
	}
	return *b.DecoratorEmail
}

// BookingCreate is the request body for a new booking
type BookingCreate struct {
	ServiceID   uint       `json:"serviceId" binding:"required"`
	UserName    string     `json:"userName"`
	Location    string     `json:"location" binding:"required"`
	Region      string     `json:"region" binding:"required"`
	District    string     `json:"district" binding:"required"`
	ServiceDate *time.Time `json:"serviceDate"`
}

// BookingAssign is the request body for decorator assignment
type BookingAssign struct {
	DecoratorID uint `json:"decoratorId" binding:"required"`
}

// BookingStatusUpdate is the request body for progress updates
type BookingStatusUpdate struct {
	ServiceStatus ServiceStatus `json:"serviceStatus" binding:"required"`
}

// BookingServiceDate is the request body for scheduling
type BookingServiceDate struct {
	ServiceDate time.Time `json:"serviceDate" binding:"required"`
}

// BookingFilter narrows booking listings. Zero values mean no filter.
type BookingFilter struct {
	UserEmail      string
	DecoratorEmail string
	ServiceStatus  ServiceStatus
	PaymentStatus  PaymentStatus
	From           *time.Time
	To             *time.Time
}
