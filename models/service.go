package models

import (
	"time"

	"github.com/lib/pq"
)

// Service is a decoration package in the catalog
type Service struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ServiceName      string         `json:"service_name" gorm:"type:varchar(200);not null"`
	ServiceCategory  string         `json:"service_category" gorm:"type:varchar(100);not null;index"`
	Cost             float64        `json:"cost" gorm:"type:decimal(12,2);not null"`
	Unit             string         `json:"unit" gorm:"type:varchar(50)"`
	Image            string         `json:"image" gorm:"type:varchar(512)"`
	ShortDescription string         `json:"shortDescription" gorm:"type:varchar(500)"`
	Description      string         `json:"description" gorm:"type:text"`
	Features         pq.StringArray `json:"features" gorm:"type:text[]"`
	Gallery          pq.StringArray `json:"gallery" gorm:"type:text[]"`
	Rating           float64        `json:"rating" gorm:"type:decimal(3,1);default:0"`
	CreatedByEmail   string         `json:"createdByEmail" gorm:"type:varchar(255)"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (Service) TableName() string {
	return "services"
}

// ServiceRequest represents the request structure for creating/updating services
type ServiceRequest struct {
	ServiceName      string   `json:"service_name" binding:"required"`
	ServiceCategory  string   `json:"service_category" binding:"required"`
	Cost             float64  `json:"cost" binding:"required,gt=0"`
	Unit             string   `json:"unit"`
	Image            string   `json:"image"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Features         []string `json:"features"`
	Gallery          []string `json:"gallery"`
	Rating           float64  `json:"rating" binding:"gte=0,lte=5"`
}

// Apply copies the request onto a catalog entry
func (r ServiceRequest) Apply(s *Service) {
	s.ServiceName = r.ServiceName
	s.ServiceCategory = r.ServiceCategory
	s.Cost = r.Cost
	s.Unit = r.Unit
	s.Image = r.Image
	s.ShortDescription = r.ShortDescription
	s.Description = r.Description
	s.Features = pq.StringArray(r.Features)
	s.Gallery = pq.StringArray(r.Gallery)
	s.Rating = r.Rating
}

// ServiceFilter narrows catalog listings
type ServiceFilter struct {
	Search    string
	Category  string
	MinBudget *float64
	MaxBudget *float64
}

// CategoryDemand is the number of bookings placed for one category
type CategoryDemand struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
