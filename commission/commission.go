// Package commission splits a completed booking's price between the decorator
// and the platform. Everything here is a pure function of its inputs.
package commission

import (
	"errors"
	"strings"

	"decor-marketplace-server/models"
)

// Category is the rate bucket a service category name falls into
type Category string

const (
	HomeService Category = "home-service"
	Wedding     Category = "wedding"
	Corporate   Category = "corporate"
	Other       Category = "other"
)

var adminRates = map[Category]float64{
	HomeService: 0.4,
	Wedding:     0.2,
	Corporate:   0.2,
	Other:       0.5,
}

var decoratorRates = map[Category]float64{
	HomeService: 0.6,
	Wedding:     0.8,
	Corporate:   0.8,
	Other:       0.5,
}

// ErrNotSettleable is returned for bookings that are not both paid and completed
var ErrNotSettleable = errors.New("booking must be paid and completed before settlement")

// AdminCategory classifies a category name for the admin table.
// "corporate" matches anywhere in the name.
func AdminCategory(name string) Category {
	value := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(value, "home service"):
		return HomeService
	case strings.Contains(value, "wedding"):
		return Wedding
	case strings.Contains(value, "corporate"):
		return Corporate
	default:
		return Other
	}
}

// DecoratorCategory classifies a category name for the decorator table.
// Only the exact name "corporate event" counts as Corporate here.
func DecoratorCategory(name string) Category {
	value := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(value, "home service"):
		return HomeService
	case strings.Contains(value, "wedding"):
		return Wedding
	case value == "corporate event":
		return Corporate
	default:
		return Other
	}
}

// AdminRate is the platform's cut for a category name
func AdminRate(category string) float64 {
	return adminRates[AdminCategory(category)]
}

// DecoratorRate is the decorator's cut for a category name
func DecoratorRate(category string) float64 {
	return decoratorRates[DecoratorCategory(category)]
}

// Settlement is the split of one booking
type Settlement struct {
	BookingID      uint    `json:"bookingId"`
	Category       string  `json:"serviceCategory"`
	Price          float64 `json:"price"`
	DecoratorRate  float64 `json:"decoratorRate"`
	AdminRate      float64 `json:"adminRate"`
	DecoratorShare float64 `json:"decoratorShare"`
	AdminShare     float64 `json:"adminShare"`
}

// Split computes the shares for a price and category without any status checks
func Split(price float64, category string) Settlement {
	dr := DecoratorRate(category)
	ar := AdminRate(category)
	return Settlement{
		Category:       category,
		Price:          price,
		DecoratorRate:  dr,
		AdminRate:      ar,
		DecoratorShare: price * dr,
		AdminShare:     price * ar,
	}
}

// Settle computes the split for a paid, completed booking
func Settle(b *models.Booking) (Settlement, error) {
	if b == nil || !b.Settleable() {
		return Settlement{}, ErrNotSettleable
	}
	s := Split(b.Price, b.ServiceCategory)
	s.BookingID = b.ID
	return s, nil
}
