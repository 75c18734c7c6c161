package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceStatusNext(t *testing.T) {
	expected := map[ServiceStatus]ServiceStatus{
		StatusPending:           StatusPlanning,
		StatusPlanning:          StatusMaterialsPrepared,
		StatusMaterialsPrepared: StatusOnTheWay,
		StatusOnTheWay:          StatusSetupInProgress,
		StatusSetupInProgress:   StatusCompleted,
	}

	for from, to := range expected {
		next, ok := from.Next()
		assert.True(t, ok, from)
		assert.Equal(t, to, next, from)
	}

	_, ok := StatusCompleted.Next()
	assert.False(t, ok)

	_, ok = ServiceStatus("shipped").Next()
	assert.False(t, ok)
}

func TestServiceStatusPrecedes(t *testing.T) {
	assert.True(t, StatusPending.Precedes(StatusCompleted))
	assert.True(t, StatusPlanning.Precedes(StatusOnTheWay))
	assert.False(t, StatusOnTheWay.Precedes(StatusPlanning))
	assert.False(t, StatusPlanning.Precedes(StatusPlanning))
	assert.False(t, ServiceStatus("bogus").Precedes(StatusCompleted))
}

func TestServiceStatusesReturnsCopy(t *testing.T) {
	statuses := ServiceStatuses()
	statuses[0] = StatusCompleted

	assert.Equal(t, StatusPending, ServiceStatuses()[0])
	assert.Len(t, statuses, 6)
}

func TestBookingHelpers(t *testing.T) {
	email := "deco@example.com"
	id := uint(3)
	name := "Deco"
	b := Booking{
		PaymentStatus:     PaymentPaid,
		ServiceStatus:     StatusPlanning,
		DecoratorID:       &id,
		DecoratorName:     &name,
		DecoratorEmail:    &email,
		DecoratorResponse: ResponseAccepted,
	}

	assert.True(t, b.InEscrow())
	assert.False(t, b.Settleable())
	assert.True(t, b.AssignedTo(" Deco@Example.com"))

	b.ClearDecorator()

	assert.False(t, b.HasDecorator())
	assert.Nil(t, b.DecoratorEmail)
	assert.Equal(t, ResponseUnset, b.DecoratorResponse)
	assert.Equal(t, "", b.DecoratorEmailValue())
}

func TestDecoratorStatusCanBecome(t *testing.T) {
	assert.True(t, DecoratorPending.CanBecome(DecoratorApproved))
	assert.True(t, DecoratorPending.CanBecome(DecoratorRejected))
	assert.True(t, DecoratorApproved.CanBecome(DecoratorRejected))
	assert.True(t, DecoratorRejected.CanBecome(DecoratorApproved))
	assert.False(t, DecoratorApproved.CanBecome(DecoratorApproved))
	assert.False(t, DecoratorApproved.CanBecome(DecoratorPending))
}

func TestDecoratorAvailability(t *testing.T) {
	d := Decorator{Status: DecoratorApproved, WorkStatus: "Available", Expertise: []string{"Wedding Decoration"}}

	assert.True(t, d.IsAvailable())
	assert.True(t, d.HasExpertise("wedding decoration"))
	assert.False(t, d.HasExpertise("Stage Decoration"))

	d.WorkStatus = "on leave"
	assert.False(t, d.IsAvailable())
}
