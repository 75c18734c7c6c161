package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"decor-marketplace-server/models"
)

func TestMultiPublishesToEveryDestination(t *testing.T) {
	var got []string
	record := func(name string) Publisher {
		return PublisherFunc(func(_ context.Context, e Event) error {
			got = append(got, name+":"+e.RoutingKey())
			return nil
		})
	}
	failing := PublisherFunc(func(context.Context, Event) error { return errors.New("broker down") })

	m := Multi{record("a"), failing, nil, record("b")}
	err := m.Publish(context.Background(), Event{Type: models.EventPaid, BookingID: 1})

	assert.EqualError(t, err, "broker down")
	assert.Equal(t, []string{"a:booking.paid", "b:booking.paid"}, got)
}

func TestMultiWithoutFailuresReturnsNil(t *testing.T) {
	assert.NoError(t, Multi{Nop{}}.Publish(context.Background(), Event{}))
}

func TestFromBookingAndRecipients(t *testing.T) {
	decorator := "deco@example.com"
	b := &models.Booking{
		ID:             9,
		UserEmail:      "client@example.com",
		DecoratorEmail: &decorator,
		Price:          1500,
		ServiceStatus:  models.StatusPlanning,
		PaymentStatus:  models.PaymentPaid,
	}
	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	e := FromBooking(models.EventStatusChanged, b, at)

	assert.Equal(t, "booking.status_changed", e.RoutingKey())
	assert.Equal(t, uint(9), e.BookingID)
	assert.Equal(t, at, e.OccurredAt)
	assert.Equal(t, []string{"client@example.com", "deco@example.com"}, e.Recipients())
}

func TestRecipientsDeduplicates(t *testing.T) {
	e := Event{UserEmail: "same@example.com", DecoratorEmail: "same@example.com"}

	assert.Equal(t, []string{"same@example.com"}, e.Recipients())
}
