package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decor-marketplace-server/models"
)

func TestCatalogFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.service(t, "Royal Wedding Stage", "Wedding Event", 85000)
	f.service(t, "Garden Wedding Arch", "Wedding Event", 30000)
	f.service(t, "Birthday Balloon Party", "Birthday Party", 12000)
	f.service(t, "Festive Home Makeover", "Home Service", 8000)

	names := func(ss []models.Service) []string {
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			out = append(out, s.ServiceName)
		}
		return out
	}

	got, err := f.catalog.List(ctx, models.ServiceFilter{Search: "WEDDING"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Royal Wedding Stage", "Garden Wedding Arch"}, names(got))

	got, err = f.catalog.List(ctx, models.ServiceFilter{Category: "home service"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Festive Home Makeover"}, names(got))

	low, high := 10000.0, 40000.0
	got, err = f.catalog.List(ctx, models.ServiceFilter{MinBudget: &low, MaxBudget: &high})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Garden Wedding Arch", "Birthday Balloon Party"}, names(got))

	_, err = f.catalog.List(ctx, models.ServiceFilter{MinBudget: &high, MaxBudget: &low})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCatalogAdminOnlyMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := models.ServiceRequest{ServiceName: "Gala", ServiceCategory: "Corporate Event", Cost: 600}

	_, err := f.catalog.Create(ctx, client, req)
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)

	svc, err := f.catalog.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, svc.CreatedByEmail)

	bad := req
	bad.Cost = 0
	_, err = f.catalog.Update(ctx, admin, svc.ID, bad)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cost", verr.Field)

	_, err = f.catalog.Update(ctx, admin, 404, req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	require.ErrorAs(t, f.catalog.Delete(ctx, client, svc.ID), &perr)
	require.NoError(t, f.catalog.Delete(ctx, admin, svc.ID))
	assert.ErrorIs(t, f.catalog.Delete(ctx, admin, svc.ID), ErrServiceNotFound)

	_, err = f.catalog.Get(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogDemand(t *testing.T) {
	f := newFixture(t)
	wedding := f.service(t, "Stage", "Wedding Event", 1000)
	birthday := f.service(t, "Balloons", "Birthday Party", 300)
	f.book(t, wedding)
	f.book(t, wedding)
	f.book(t, birthday)

	demand, err := f.catalog.Demand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryDemand{
		{Category: "Wedding Event", Count: 2},
		{Category: "Birthday Party", Count: 1},
	}, demand)
}
