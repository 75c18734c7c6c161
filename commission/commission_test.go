package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decor-marketplace-server/models"
)

func strPtr(s string) *string { return &s }

func completed(id uint, price float64, category, decorator string) models.Booking {
	return models.Booking{
		ID:              id,
		Price:           price,
		ServiceCategory: category,
		PaymentStatus:   models.PaymentPaid,
		ServiceStatus:   models.StatusCompleted,
		DecoratorEmail:  strPtr(decorator),
	}
}

func TestRateTables(t *testing.T) {
	tests := []struct {
		category      string
		adminRate     float64
		decoratorRate float64
	}{
		{"Home Service", 0.4, 0.6},
		{"Premium home service package", 0.4, 0.6},
		{"Wedding", 0.2, 0.8},
		{"Wedding Event", 0.2, 0.8},
		{"Corporate Event", 0.2, 0.8},
		{"corporate event", 0.2, 0.8},
		{"Corporate Event Decoration", 0.2, 0.5},
		{"Corporate", 0.2, 0.5},
		{"Birthday Party", 0.5, 0.5},
		{"Unknown Category", 0.5, 0.5},
		{"", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.adminRate, AdminRate(tt.category))
			assert.Equal(t, tt.decoratorRate, DecoratorRate(tt.category))
		})
	}
}

func TestSettleWeddingEvent(t *testing.T) {
	b := completed(1, 1000, "Wedding Event", "d@example.com")

	s, err := Settle(&b)

	require.NoError(t, err)
	assert.Equal(t, 800.0, s.DecoratorShare)
	assert.Equal(t, 200.0, s.AdminShare)
	assert.Equal(t, uint(1), s.BookingID)
}

func TestSettleFallbackCategory(t *testing.T) {
	b := completed(2, 1000, "Unknown Category", "d@example.com")

	s, err := Settle(&b)

	require.NoError(t, err)
	assert.Equal(t, 0.5, s.AdminRate)
	assert.Equal(t, 0.5, s.DecoratorRate)
	assert.Equal(t, 500.0, s.DecoratorShare)
	assert.Equal(t, 500.0, s.AdminShare)
}

func TestSettleIsDeterministic(t *testing.T) {
	b := completed(3, 1234.5, "Home Service", "d@example.com")

	first, err := Settle(&b)
	require.NoError(t, err)
	second, err := Settle(&b)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSettleRequiresPaidAndCompleted(t *testing.T) {
	unpaid := completed(4, 100, "Wedding", "d@example.com")
	unpaid.PaymentStatus = models.PaymentUnpaid

	inProgress := completed(5, 100, "Wedding", "d@example.com")
	inProgress.ServiceStatus = models.StatusSetupInProgress

	for _, b := range []models.Booking{unpaid, inProgress} {
		_, err := Settle(&b)
		assert.ErrorIs(t, err, ErrNotSettleable)
	}

	_, err := Settle(nil)
	assert.ErrorIs(t, err, ErrNotSettleable)
}

func TestSummarize(t *testing.T) {
	escrow := models.Booking{Price: 300, ServiceCategory: "Wedding", PaymentStatus: models.PaymentPaid, ServiceStatus: models.StatusPlanning}
	unpaid := models.Booking{Price: 999, ServiceCategory: "Wedding", PaymentStatus: models.PaymentUnpaid, ServiceStatus: models.StatusPending}
	bookings := []models.Booking{
		completed(1, 1000, "Wedding Event", "a@example.com"),
		completed(2, 500, "Home Service", "b@example.com"),
		completed(3, 200, "Birthday", "a@example.com"),
		escrow,
		unpaid,
	}

	s := Summarize(bookings)

	assert.Equal(t, 300.0, s.TotalEscrow)
	assert.Equal(t, 1, s.EscrowCount)
	assert.Equal(t, 1700.0, s.TotalGrossRevenue)
	assert.InDelta(t, 1000*0.2+500*0.4+200*0.5, s.NetAdminProfit, 1e-9)
	assert.Equal(t, 3, s.SettledCount)
	assert.Equal(t, s.TotalGrossRevenue-s.NetAdminProfit, s.TotalDecoratorPayouts)
}

func TestSummarizePayoutsAreDerived(t *testing.T) {
	// Corporate Event Decoration: admin 0.2 and decorator 0.5, so an independent sum would differ.
	bookings := []models.Booking{
		completed(1, 1000, "Corporate Event Decoration", "a@example.com"),
		completed(2, 333.33, "Home Service", "a@example.com"),
	}

	s := Summarize(bookings)

	assert.Equal(t, s.TotalGrossRevenue-s.NetAdminProfit, s.TotalDecoratorPayouts)
	assert.InDelta(t, 800+333.33*0.6, s.TotalDecoratorPayouts, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestDecoratorEarnings(t *testing.T) {
	active := completed(4, 5000, "Wedding", "a@example.com")
	active.ServiceStatus = models.StatusOnTheWay
	bookings := []models.Booking{
		completed(1, 1000, "Wedding Event", "a@example.com"),
		completed(2, 500, "Home Service", "b@example.com"),
		completed(3, 200, "Birthday", "A@Example.com"),
		active,
	}

	e := DecoratorEarnings(bookings, " A@example.com ")

	assert.Equal(t, "a@example.com", e.DecoratorEmail)
	assert.Equal(t, 2, e.CompletedJobs)
	assert.InDelta(t, 800+100, e.TotalEarnings, 1e-9)
	require.Len(t, e.Settlements, 2)
	assert.Equal(t, uint(1), e.Settlements[0].BookingID)
}
