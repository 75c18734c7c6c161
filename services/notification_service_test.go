package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/testutil"
	"decor-marketplace-server/types"
)

func TestNotificationInbox(t *testing.T) {
	repo := repository.NewNotificationRepository(testutil.OpenTestDB(t))
	svc := NewNotificationService(repo)
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, []models.Notification{
		{UserEmail: client.Email, BookingID: 1, Type: models.EventPaid, Title: "Payment received", Body: "paid"},
		{UserEmail: client.Email, BookingID: 1, Type: models.EventAssigned, Title: "Decorator assigned", Body: "assigned"},
		{UserEmail: other.Email, BookingID: 2, Type: models.EventPaid, Title: "Payment received", Body: "paid"},
	}))

	items, err := svc.List(ctx, client, false)
	require.NoError(t, err)
	require.Len(t, items, 2)

	count, err := svc.UnreadCount(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// another user's notification looks missing
	var otherID uint
	theirs, err := svc.List(ctx, other, false)
	require.NoError(t, err)
	otherID = theirs[0].ID
	assert.True(t, errors.Is(svc.MarkRead(ctx, client, otherID), ErrNotFound))

	require.NoError(t, svc.MarkRead(ctx, client, items[0].ID))
	unread, err := svc.List(ctx, client, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	n, err := svc.MarkAllRead(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.List(ctx, types.Actor{}, false)
	var perm *PermissionError
	assert.ErrorAs(t, err, &perm)
}
