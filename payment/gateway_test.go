package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxGatewayLifecycle(t *testing.T) {
	g := NewSandboxGateway()
	ctx := context.Background()

	session, err := g.CreateSession(ctx, CheckoutParams{
		BookingID:  7,
		Amount:     1000,
		Currency:   "bdt",
		SuccessURL: "http://localhost:5173/dashboard/payment-success",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(session.ID, "cs_"))
	assert.Equal(t, "http://localhost:5173/dashboard/payment-success?session_id="+session.ID, session.URL)

	first, err := g.ConfirmSession(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, first.Paid)
	assert.True(t, strings.HasPrefix(first.TransactionID, "pi_"))

	second, err := g.ConfirmSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, second.TransactionID)
}

func TestSandboxGatewayRejectsUnknownSession(t *testing.T) {
	_, err := NewSandboxGateway().ConfirmSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestSandboxGatewayRejectsNonPositiveAmount(t *testing.T) {
	_, err := NewSandboxGateway().CreateSession(context.Background(), CheckoutParams{Amount: 0})
	assert.Error(t, err)
}

func TestSuccessURLKeepsExistingQuery(t *testing.T) {
	got := SuccessURL("https://decor.example/return?tab=bookings", "cs_1")
	assert.Equal(t, "https://decor.example/return?session_id=cs_1&tab=bookings", got)
}
