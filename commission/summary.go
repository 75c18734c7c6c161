package commission

import (
	"strings"

	"decor-marketplace-server/models"
)

// Summary is the admin financial overview
type Summary struct {
	TotalEscrow           float64 `json:"totalEscrow"`
	TotalGrossRevenue     float64 `json:"totalGrossRevenue"`
	NetAdminProfit        float64 `json:"netAdminProfit"`
	TotalDecoratorPayouts float64 `json:"totalDecoratorPayouts"`
	EscrowCount           int     `json:"escrowCount"`
	SettledCount          int     `json:"settledCount"`
}

// Summarize derives the admin figures from the booking set.
// Payouts are gross minus profit, never an independent sum.
func Summarize(bookings []models.Booking) Summary {
	var s Summary
	for i := range bookings {
		b := &bookings[i]
		switch {
		case b.InEscrow():
			s.TotalEscrow += b.Price
			s.EscrowCount++
		case b.Settleable():
			s.TotalGrossRevenue += b.Price
			s.NetAdminProfit += b.Price * AdminRate(b.ServiceCategory)
			s.SettledCount++
		}
	}
	s.TotalDecoratorPayouts = s.TotalGrossRevenue - s.NetAdminProfit
	return s
}

// Earnings is one decorator's settled income
type Earnings struct {
	DecoratorEmail string       `json:"decoratorEmail"`
	TotalEarnings  float64      `json:"totalEarnings"`
	CompletedJobs  int          `json:"completedJobs"`
	Settlements    []Settlement `json:"settlements"`
}

// DecoratorEarnings sums the decorator table over the decorator's completed bookings
func DecoratorEarnings(bookings []models.Booking, decoratorEmail string) Earnings {
	email := models.NormalizeEmail(decoratorEmail)
	out := Earnings{DecoratorEmail: email, Settlements: []Settlement{}}
	for i := range bookings {
		b := &bookings[i]
		if !b.IsCompleted() || !strings.EqualFold(b.DecoratorEmailValue(), email) {
			continue
		}
		s := Split(b.Price, b.ServiceCategory)
		s.BookingID = b.ID
		out.TotalEarnings += s.DecoratorShare
		out.CompletedJobs++
		out.Settlements = append(out.Settlements, s)
	}
	return out
}
