package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type DecoratorStatus string

const (
	DecoratorPending  DecoratorStatus = "pending"
	DecoratorApproved DecoratorStatus = "approved"
	DecoratorRejected DecoratorStatus = "rejected"
)

// WorkStatusAvailable is the work status that makes a decorator assignable
const WorkStatusAvailable = "available"

// Expertise values offered at registration
var ExpertiseOptions = []string{
	"Wedding Decoration",
	"Birthday Decoration",
	"Stage Decoration",
	"Corporate Event Decoration",
	"Home Decoration",
}

// Decorator is a partner who fulfils bookings
type Decorator struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"type:varchar(255);not null"`
	Email      string          `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Age        int             `json:"age"`
	Phone      string          `json:"phone" gorm:"type:varchar(32)"`
	Expertise  pq.StringArray  `json:"expertise" gorm:"type:text[]"`
	Region     string          `json:"region" gorm:"type:varchar(100)"`
	District   string          `json:"district" gorm:"type:varchar(100);index"`
	Status     DecoratorStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	WorkStatus string          `json:"workStatus" gorm:"type:varchar(50);default:'available'"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (Decorator) TableName() string {
	return "decorators"
}

func (s DecoratorStatus) IsValid() bool {
	switch s {
	case DecoratorPending, DecoratorApproved, DecoratorRejected:
		return true
	default:
		return false
	}
}

// CanBecome reports whether an admin may move a decorator from s to next.
// pending goes to approved or rejected; approved and rejected toggle.
func (s DecoratorStatus) CanBecome(next DecoratorStatus) bool {
	switch next {
	case DecoratorApproved:
		return s == DecoratorPending || s == DecoratorRejected
	case DecoratorRejected:
		return s == DecoratorPending || s == DecoratorApproved
	default:
		return false
	}
}

// HasExpertise matches case-insensitively
func (d *Decorator) HasExpertise(expertise string) bool {
	for _, e := range d.Expertise {
		if strings.EqualFold(strings.TrimSpace(e), strings.TrimSpace(expertise)) {
			return true
		}
	}
	return false
}

func (d *Decorator) IsAvailable() bool {
	return d.Status == DecoratorApproved && strings.EqualFold(d.WorkStatus, WorkStatusAvailable)
}

// DecoratorCreate is the self registration body
type DecoratorCreate struct {
	Name      string   `json:"name" binding:"required"`
	Age       int      `json:"age" binding:"required,gte=18,lte=100"`
	Phone     string   `json:"phone"`
	Expertise []string `json:"expertise" binding:"required,min=1"`
	Region    string   `json:"region" binding:"required"`
	District  string   `json:"district" binding:"required"`
}

// DecoratorStatusUpdate is the admin approval body
type DecoratorStatusUpdate struct {
	Status     DecoratorStatus `json:"status"`
	WorkStatus string          `json:"workStatus"`
}

// DecoratorFilter narrows decorator listings
type DecoratorFilter struct {
	Status     DecoratorStatus
	WorkStatus string
	District   string
	Expertise  string
}
