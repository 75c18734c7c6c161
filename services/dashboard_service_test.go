package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decor-marketplace-server/models"
)

func TestAdminDashboardSeparatesEscrowFromSettled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done, deco := f.accepted(t, "Corporate Event", 1000)
	for _, st := range models.ServiceStatuses()[1:] {
		_, err := f.bookings.AdvanceStatus(ctx, deco, done.ID, st)
		require.NoError(t, err)
	}

	escrow := f.book(t, f.service(t, "Stage", "Unknown Category", 500))
	f.pay(t, escrow)
	f.book(t, f.service(t, "Balloons", "Birthday Party", 300))

	view, err := f.dashboards.Admin(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalBookings)
	assert.InDelta(t, 500.0, view.TotalEscrow, 1e-9)
	assert.InDelta(t, 1000.0, view.TotalGrossRevenue, 1e-9)
	assert.InDelta(t, 200.0, view.NetAdminProfit, 1e-9)
	assert.Equal(t, view.TotalGrossRevenue-view.NetAdminProfit, view.TotalDecoratorPayouts)
	assert.Equal(t, 1, view.AwaitingAssignment)
	assert.Equal(t, 2, view.ByStatus[models.StatusPending])
	assert.Equal(t, 1, view.ByStatus[models.StatusCompleted])
	assert.Len(t, view.Demand, 3)

	_, err = f.dashboards.Admin(ctx, client)
	var perr *PermissionError
	assert.ErrorAs(t, err, &perr)
}

func TestUserDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pay(t, f.book(t, f.service(t, "Stage", "Wedding Event", 1000)))
	f.book(t, f.service(t, "Balloons", "Birthday Party", 300))

	view, err := f.dashboards.User(ctx, client)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, view.TotalSpent, 1e-9)
	assert.Equal(t, 1, view.PaymentCount)
	assert.Equal(t, 2, view.BookingCount)
	assert.Equal(t, 2, view.ActiveBookings)
}

func TestDecoratorDashboardCountsJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, deco := f.accepted(t, "Wedding Event", 1000)
	_, err := f.bookings.SetServiceDate(ctx, admin, b.ID, f.clock)
	require.NoError(t, err)

	view, err := f.dashboards.Decorator(ctx, deco)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ActiveJobs)
	assert.Equal(t, 0, view.PendingResponses)
	assert.Zero(t, view.TotalEarnings)
	require.Len(t, view.TodaySchedule, 1)
	assert.Equal(t, b.ID, view.TodaySchedule[0].ID)

	_, err = f.dashboards.Decorator(ctx, client)
	var perr *PermissionError
	assert.ErrorAs(t, err, &perr)
}
