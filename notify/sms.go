// Package notify sends text messages about bookings through Twilio.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"decor-marketplace-server/config"
	"decor-marketplace-server/events"
	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
)

// Sender delivers one text message
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// PhoneBook resolves an account email to a phone number. An empty number means none on file.
type PhoneBook interface {
	PhoneFor(ctx context.Context, email string) (string, error)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from: cfg.FromNumber,
	}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp.Sid != nil {
		log.Printf("📱 SMS sent to %s, SID: %s", to, *resp.Sid)
	}
	return nil
}

// SMSNotifier texts decorators about new assignments and clients about tomorrow's service
type SMSNotifier struct {
	sender Sender
	phones PhoneBook
}

func NewSMSNotifier(sender Sender, phones PhoneBook) *SMSNotifier {
	return &SMSNotifier{sender: sender, phones: phones}
}

func (n *SMSNotifier) Publish(ctx context.Context, e events.Event) error {
	var to, body string
	switch e.Type {
	case models.EventAssigned:
		to = e.DecoratorEmail
		body = fmt.Sprintf("New decoration job #%d: %s in %s. Open your dashboard to accept or reject.",
			e.BookingID, e.ServiceName, e.ServiceCategory)
	case models.EventReminder:
		to = e.UserEmail
		body = fmt.Sprintf("Reminder: your %s booking #%d is scheduled for %s.",
			e.ServiceName, e.BookingID, serviceDay(e))
	default:
		return nil
	}
	if to == "" {
		return nil
	}

	phone, err := n.phones.PhoneFor(ctx, to)
	if err != nil {
		return fmt.Errorf("phone lookup for %s: %w", to, err)
	}
	if phone == "" {
		log.Printf("⚠️ No phone on file for %s, skipping %s SMS", to, e.Type)
		return nil
	}
	return n.sender.Send(ctx, phone, body)
}

func serviceDay(e events.Event) string {
	if e.ServiceDate == nil {
		return "the agreed date"
	}
	return e.ServiceDate.Format("Mon 02 Jan 2006")
}

// AccountPhoneBook prefers the user profile phone and falls back to the decorator application
type AccountPhoneBook struct {
	users      repository.UserRepository
	decorators repository.DecoratorRepository
}

func NewAccountPhoneBook(users repository.UserRepository, decorators repository.DecoratorRepository) *AccountPhoneBook {
	return &AccountPhoneBook{users: users, decorators: decorators}
}

func (p *AccountPhoneBook) PhoneFor(ctx context.Context, email string) (string, error) {
	u, err := p.users.FindByEmail(ctx, nil, email)
	switch {
	case err == nil && strings.TrimSpace(u.Phone) != "":
		return strings.TrimSpace(u.Phone), nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}

	d, err := p.decorators.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(d.Phone), nil
}
