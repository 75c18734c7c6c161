package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"decor-marketplace-server/events"
	"decor-marketplace-server/models"
	"decor-marketplace-server/payment"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
	"decor-marketplace-server/utils"
)

// PaymentOptions carries the checkout settings from config
type PaymentOptions struct {
	Currency   string
	SuccessURL string
	CancelURL  string
	SessionTTL time.Duration
}

// PaymentConfirmation is returned by the post-redirect confirmation call
type PaymentConfirmation struct {
	BookingID        uint            `json:"bookingId"`
	TrackingID       string          `json:"trackingId"`
	TransactionID    string          `json:"transactionId"`
	AlreadyConfirmed bool            `json:"alreadyConfirmed"`
	Payment          *models.Payment `json:"payment"`
}

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, actor types.Actor, req models.CheckoutRequest) (*models.CheckoutSession, error)
	ConfirmPayment(ctx context.Context, actor types.Actor, sessionID string) (*PaymentConfirmation, error)
	ListPayments(ctx context.Context, actor types.Actor, email string) ([]models.Payment, error)
	ExpireSessions(ctx context.Context) (int64, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	gateway     payment.Gateway
	publisher   events.Publisher
	opts        PaymentOptions
	now         func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	gateway payment.Gateway,
	publisher events.Publisher,
	opts PaymentOptions,
) PaymentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		publisher:   publisher,
		opts:        opts,
		now:         time.Now,
	}
}

// CreateCheckoutSession charges the booking's snapshot price, never the amount in the request
func (s *paymentService) CreateCheckoutSession(ctx context.Context, actor types.Actor, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	if req.BookingID == 0 {
		return nil, invalid("bookingId", "is required")
	}
	booking, err := s.bookingRepo.FindByID(ctx, nil, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if actor.Anonymous() || booking.UserEmail != models.NormalizeEmail(actor.Email) {
		return nil, denied(actor.Email, "pay for this booking")
	}
	if booking.IsPaid() {
		return nil, invalid("bookingId", "booking is already paid")
	}
	if req.Price != 0 && req.Price != booking.Price {
		log.Printf("⚠️ Checkout for booking %d requested %.2f, charging snapshot price %.2f", booking.ID, req.Price, booking.Price)
	}

	gs, err := s.gateway.CreateSession(ctx, payment.CheckoutParams{
		BookingID:     booking.ID,
		CustomerEmail: booking.UserEmail,
		ServiceName:   booking.ServiceName,
		Amount:        booking.Price,
		Currency:      s.opts.Currency,
		SuccessURL:    s.opts.SuccessURL,
		CancelURL:     s.opts.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	session := &models.CheckoutSession{
		SessionID:     gs.ID,
		BookingID:     booking.ID,
		CustomerEmail: booking.UserEmail,
		ServiceName:   booking.ServiceName,
		Amount:        booking.Price,
		Currency:      s.opts.Currency,
		URL:           gs.URL,
		Status:        models.CheckoutOpen,
		ExpiresAt:     s.now().Add(s.opts.SessionTTL),
	}
	if err := s.paymentRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("store checkout session: %w", err)
	}

	log.Printf("💳 Checkout session %s opened for booking %d (%.2f %s)", session.SessionID, booking.ID, session.Amount, session.Currency)
	return session, nil
}

// ConfirmPayment marks the booking paid and writes the payment record in one
// transaction. Confirming a completed session again returns the stored ids.
func (s *paymentService) ConfirmPayment(ctx context.Context, actor types.Actor, sessionID string) (*PaymentConfirmation, error) {
	if sessionID == "" {
		return nil, &PaymentLookupError{Message: "session id is required"}
	}

	session, err := s.paymentRepo.FindSession(ctx, nil, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PaymentLookupError{SessionID: sessionID, Message: "unknown checkout session"}
		}
		return nil, fmt.Errorf("load checkout session: %w", err)
	}
	if !actor.IsAdmin() && session.CustomerEmail != models.NormalizeEmail(actor.Email) {
		return nil, denied(actor.Email, "confirm this payment")
	}
	if session.Status == models.CheckoutComplete {
		return s.alreadyConfirmed(ctx, nil, sessionID)
	}
	if session.IsExpired(s.now()) {
		return nil, &PaymentLookupError{SessionID: sessionID, Message: "checkout session has expired"}
	}

	conf, err := s.gateway.ConfirmSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownSession) {
			return nil, &PaymentLookupError{SessionID: sessionID, Message: "payment provider does not know this session"}
		}
		return nil, fmt.Errorf("confirm checkout session: %w", err)
	}
	if !conf.Paid {
		return nil, &PaymentLookupError{SessionID: sessionID, Message: "checkout session has not been paid"}
	}

	var (
		result  *PaymentConfirmation
		booking *models.Booking
	)
	err = s.paymentRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.paymentRepo.FindSession(ctx, tx, sessionID)
		if err != nil {
			return fmt.Errorf("reload checkout session: %w", err)
		}
		if current.Status == models.CheckoutComplete {
			result, err = s.alreadyConfirmed(ctx, tx, sessionID)
			return err
		}

		b, err := s.bookingRepo.FindByID(ctx, tx, current.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}
		if b.IsPaid() {
			return &PaymentLookupError{SessionID: sessionID, Message: "booking was already paid through another session"}
		}

		paidAt := s.now()
		trackingID := utils.NewTrackingID(paidAt)
		transactionID := conf.TransactionID

		b.PaymentStatus = models.PaymentPaid
		b.TrackingID = &trackingID
		b.TransactionID = &transactionID
		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}

		current.Status = models.CheckoutComplete
		if err := s.paymentRepo.SaveSession(ctx, tx, current); err != nil {
			return fmt.Errorf("save checkout session: %w", err)
		}

		p := &models.Payment{
			BookingID:     b.ID,
			SessionID:     sessionID,
			CustomerEmail: b.UserEmail,
			ServiceName:   b.ServiceName,
			Amount:        current.Amount,
			Currency:      current.Currency,
			TransactionID: transactionID,
			TrackingID:    trackingID,
			PaidAt:        paidAt,
		}
		if err := s.paymentRepo.Create(ctx, tx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		if err := s.bookingRepo.AppendEvent(ctx, tx, &models.BookingEvent{
			BookingID:  b.ID,
			Type:       models.EventPaid,
			FromStatus: b.ServiceStatus,
			ToStatus:   b.ServiceStatus,
			ActorEmail: models.NormalizeEmail(actor.Email),
			Note:       trackingID,
		}); err != nil {
			return fmt.Errorf("append booking event: %w", err)
		}

		booking = b
		result = &PaymentConfirmation{
			BookingID:     b.ID,
			TrackingID:    trackingID,
			TransactionID: transactionID,
			Payment:       p,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if booking != nil {
		log.Printf("✅ Booking %d paid, tracking %s", booking.ID, result.TrackingID)
		if err := s.publisher.Publish(context.WithoutCancel(ctx), events.FromBooking(models.EventPaid, booking, s.now())); err != nil {
			log.Printf("⚠️ Booking %d paid event not delivered: %v", booking.ID, err)
		}
	}
	return result, nil
}

func (s *paymentService) alreadyConfirmed(ctx context.Context, tx *gorm.DB, sessionID string) (*PaymentConfirmation, error) {
	p, err := s.paymentRepo.FindBySession(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PaymentLookupError{SessionID: sessionID, Message: "session is complete but no payment was recorded"}
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}
	return &PaymentConfirmation{
		BookingID:        p.BookingID,
		TrackingID:       p.TrackingID,
		TransactionID:    p.TransactionID,
		AlreadyConfirmed: true,
		Payment:          p,
	}, nil
}

// ListPayments returns the actor's own history. Admins may list anyone's, or all with an empty email.
func (s *paymentService) ListPayments(ctx context.Context, actor types.Actor, email string) ([]models.Payment, error) {
	if actor.Anonymous() {
		return nil, denied("", "list payments")
	}
	if !actor.IsAdmin() {
		if email != "" && models.NormalizeEmail(email) != models.NormalizeEmail(actor.Email) {
			return nil, denied(actor.Email, "list another user's payments")
		}
		email = actor.Email
	}
	return s.paymentRepo.ListByEmail(ctx, email)
}

// ExpireSessions closes open checkout sessions past their deadline
func (s *paymentService) ExpireSessions(ctx context.Context) (int64, error) {
	n, err := s.paymentRepo.ExpireSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("expire checkout sessions: %w", err)
	}
	return n, nil
}
