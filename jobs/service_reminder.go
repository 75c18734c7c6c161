package jobs

import (
	"context"
	"log"
	"time"

	"github.com/jinzhu/now"

	"decor-marketplace-server/events"
	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
)

// ServiceReminderJob announces every paid, unfinished booking scheduled for tomorrow
type ServiceReminderJob struct {
	bookings  repository.BookingRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewServiceReminderJob(bookings repository.BookingRepository, publisher events.Publisher) *ServiceReminderJob {
	return &ServiceReminderJob{bookings: bookings, publisher: publisher, now: time.Now}
}

func (j *ServiceReminderJob) Name() string { return "service-reminder" }

func (j *ServiceReminderJob) Run(ctx context.Context) error {
	at := j.now()
	tomorrow := now.With(at.AddDate(0, 0, 1))
	from, to := tomorrow.BeginningOfDay(), tomorrow.EndOfDay()

	due, err := j.bookings.List(ctx, models.BookingFilter{
		PaymentStatus: models.PaymentPaid,
		From:          &from,
		To:            &to,
	})
	if err != nil {
		return err
	}

	sent := 0
	for i := range due {
		b := &due[i]
		if b.IsCompleted() {
			continue
		}
		if err := j.publisher.Publish(ctx, events.FromBooking(models.EventReminder, b, at)); err != nil {
			log.Printf("⚠️ Reminder for booking %d not delivered: %v", b.ID, err)
			continue
		}
		sent++
	}
	if sent > 0 {
		log.Printf("📅 Sent %d reminders for %s", sent, from.Format("2006-01-02"))
	}
	return nil
}
