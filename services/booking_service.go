package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"decor-marketplace-server/commission"
	"decor-marketplace-server/events"
	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
)

// Decision is a decorator's answer to an assignment
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// StatusResult is the outcome of a progress update. Settlement is set only on completion.
type StatusResult struct {
	Booking    *models.Booking        `json:"booking"`
	Settlement *commission.Settlement `json:"settlement,omitempty"`
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor types.Actor, req models.BookingCreate) (*models.Booking, error)
	GetBooking(ctx context.Context, actor types.Actor, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, actor types.Actor, filter models.BookingFilter) ([]models.Booking, error)
	ListDecoratorBookings(ctx context.Context, actor types.Actor, decoratorEmail string) ([]models.Booking, error)
	ListPendingBookings(ctx context.Context, actor types.Actor) ([]models.Booking, error)
	AssignDecorator(ctx context.Context, actor types.Actor, bookingID, decoratorID uint) (*models.Booking, error)
	SetServiceDate(ctx context.Context, actor types.Actor, bookingID uint, date time.Time) (*models.Booking, error)
	RespondToAssignment(ctx context.Context, actor types.Actor, bookingID uint, decision Decision) (*models.Booking, error)
	AdvanceStatus(ctx context.Context, actor types.Actor, bookingID uint, target models.ServiceStatus) (*StatusResult, error)
	CancelBooking(ctx context.Context, actor types.Actor, bookingID uint) error
	TodaySchedule(ctx context.Context, actor types.Actor, decoratorEmail string, at time.Time) ([]models.Booking, error)
	History(ctx context.Context, actor types.Actor, bookingID uint) ([]models.BookingEvent, error)
}

type bookingService struct {
	bookingRepo   repository.BookingRepository
	serviceRepo   repository.ServiceRepository
	decoratorRepo repository.DecoratorRepository
	publisher     events.Publisher
	now           func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	decoratorRepo repository.DecoratorRepository,
	publisher events.Publisher,
) BookingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &bookingService{
		bookingRepo:   bookingRepo,
		serviceRepo:   serviceRepo,
		decoratorRepo: decoratorRepo,
		publisher:     publisher,
		now:           time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor types.Actor, req models.BookingCreate) (*models.Booking, error) {
	if actor.Anonymous() {
		return nil, denied("", "create a booking")
	}
	if req.ServiceID == 0 {
		return nil, invalid("serviceId", "a service package is required")
	}
	for field, value := range map[string]string{
		"location": req.Location,
		"region":   req.Region,
		"district": req.District,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, invalid(field, "is required")
		}
	}

	svc, err := s.serviceRepo.FindByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("serviceId", fmt.Sprintf("service %d does not exist", req.ServiceID))
		}
		return nil, fmt.Errorf("load service: %w", err)
	}

	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		userName = actor.Email
	}

	booking := &models.Booking{
		UserEmail:       models.NormalizeEmail(actor.Email),
		UserName:        userName,
		ServiceID:       svc.ID,
		ServiceName:     svc.ServiceName,
		ServiceCategory: svc.ServiceCategory,
		Price:           svc.Cost,
		Location:        strings.TrimSpace(req.Location),
		Region:          strings.TrimSpace(req.Region),
		District:        strings.TrimSpace(req.District),
		PaymentStatus:   models.PaymentUnpaid,
		ServiceStatus:   models.StatusPending,
		ServiceDate:     req.ServiceDate,
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return s.record(ctx, tx, booking, models.EventCreated, "", models.StatusPending, actor, "")
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %d created for %s (%s)", booking.ID, booking.UserEmail, booking.ServiceName)
	s.publish(ctx, events.FromBooking(models.EventCreated, booking, s.now()))
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor types.Actor, id uint) (*models.Booking, error) {
	booking, err := s.load(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, booking) {
		return nil, denied(actor.Email, "view this booking")
	}
	return booking, nil
}

// ListBookings lets admins filter freely. Everyone else only sees their own bookings.
func (s *bookingService) ListBookings(ctx context.Context, actor types.Actor, filter models.BookingFilter) ([]models.Booking, error) {
	if actor.Anonymous() {
		return nil, denied("", "list bookings")
	}
	if !actor.IsAdmin() {
		if filter.UserEmail != "" && models.NormalizeEmail(filter.UserEmail) != models.NormalizeEmail(actor.Email) {
			return nil, denied(actor.Email, "list another user's bookings")
		}
		filter.UserEmail = actor.Email
	}
	return s.bookingRepo.List(ctx, filter)
}

func (s *bookingService) ListDecoratorBookings(ctx context.Context, actor types.Actor, decoratorEmail string) ([]models.Booking, error) {
	if decoratorEmail == "" {
		decoratorEmail = actor.Email
	}
	if !actor.IsAdmin() {
		if !actor.IsDecorator() || models.NormalizeEmail(decoratorEmail) != models.NormalizeEmail(actor.Email) {
			return nil, denied(actor.Email, "list this decorator's bookings")
		}
	}
	return s.bookingRepo.List(ctx, models.BookingFilter{DecoratorEmail: decoratorEmail})
}

func (s *bookingService) ListPendingBookings(ctx context.Context, actor types.Actor) ([]models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "list pending bookings")
	}
	return s.bookingRepo.List(ctx, models.BookingFilter{ServiceStatus: models.StatusPending})
}

func (s *bookingService) AssignDecorator(ctx context.Context, actor types.Actor, bookingID, decoratorID uint) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "assign decorators")
	}

	var booking *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.load(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !b.IsPaid() {
			return &InvalidAssignmentError{BookingID: b.ID, Message: "booking must be paid before a decorator can be assigned"}
		}
		if b.DecoratorResponse == models.ResponseAccepted {
			return &InvalidAssignmentError{BookingID: b.ID, Message: "booking already has an accepted decorator"}
		}

		d, err := s.decoratorRepo.FindByID(ctx, tx, decoratorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDecoratorNotFound
			}
			return fmt.Errorf("load decorator: %w", err)
		}
		if d.Status != models.DecoratorApproved {
			return &InvalidAssignmentError{BookingID: b.ID, Message: fmt.Sprintf("decorator %s is not approved", d.Email)}
		}

		name, email := d.Name, models.NormalizeEmail(d.Email)
		b.DecoratorID = &d.ID
		b.DecoratorName = &name
		b.DecoratorEmail = &email
		b.DecoratorResponse = models.ResponsePending

		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		booking = b
		return s.record(ctx, tx, b, models.EventAssigned, b.ServiceStatus, b.ServiceStatus, actor, email)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %d assigned to %s", booking.ID, booking.DecoratorEmailValue())
	s.publish(ctx, events.FromBooking(models.EventAssigned, booking, s.now()))
	return booking, nil
}

func (s *bookingService) SetServiceDate(ctx context.Context, actor types.Actor, bookingID uint, date time.Time) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "schedule bookings")
	}
	if date.IsZero() {
		return nil, invalid("serviceDate", "is required")
	}

	var booking *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.load(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		b.ServiceDate = &date
		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		booking = b
		return s.record(ctx, tx, b, models.EventServiceDateSet, b.ServiceStatus, b.ServiceStatus, actor, date.Format(time.RFC3339))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.FromBooking(models.EventServiceDateSet, booking, s.now()))
	return booking, nil
}

// RespondToAssignment records the decorator's answer. A rejection returns the
// booking to the unassigned pool.
func (s *bookingService) RespondToAssignment(ctx context.Context, actor types.Actor, bookingID uint, decision Decision) (*models.Booking, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, invalid("decision", "must be accept or reject")
	}

	var (
		booking   *models.Booking
		eventType models.BookingEventType
		rejecter  string
	)
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.load(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !b.AssignedTo(actor.Email) {
			return denied(actor.Email, "respond to this assignment")
		}
		if b.DecoratorResponse != models.ResponsePending {
			return &InvalidAssignmentError{BookingID: b.ID, Message: "assignment has already been answered"}
		}

		note := ""
		switch decision {
		case DecisionAccept:
			b.DecoratorResponse = models.ResponseAccepted
			eventType = models.EventAccepted
		case DecisionReject:
			rejecter = b.DecoratorEmailValue()
			note = "rejected by " + rejecter
			b.ClearDecorator()
			eventType = models.EventRejected
		}

		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		booking = b
		return s.record(ctx, tx, b, eventType, b.ServiceStatus, b.ServiceStatus, actor, note)
	})
	if err != nil {
		return nil, err
	}

	ev := events.FromBooking(eventType, booking, s.now())
	if rejecter != "" {
		ev.DecoratorEmail = rejecter
		ev.Note = "assignment rejected"
	}
	log.Printf("✅ Booking %d %s by %s", booking.ID, eventType, actor.Email)
	s.publish(ctx, ev)
	return booking, nil
}

// AdvanceStatus moves the booking exactly one stage forward
func (s *bookingService) AdvanceStatus(ctx context.Context, actor types.Actor, bookingID uint, target models.ServiceStatus) (*StatusResult, error) {
	var (
		result = &StatusResult{}
		from   models.ServiceStatus
	)
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.load(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !b.AssignedTo(actor.Email) {
			return denied(actor.Email, "update this booking's progress")
		}
		if err := checkTransition(b, target); err != nil {
			return err
		}

		from = b.ServiceStatus
		b.ServiceStatus = target
		eventType := models.EventStatusChanged
		if target == models.StatusCompleted {
			completedAt := s.now()
			b.CompletedAt = &completedAt
			eventType = models.EventCompleted
		}

		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		result.Booking = b

		if target == models.StatusCompleted && b.IsPaid() {
			settlement, err := commission.Settle(b)
			if err != nil {
				return err
			}
			result.Settlement = &settlement
		}
		return s.record(ctx, tx, b, eventType, from, target, actor, "")
	})
	if err != nil {
		return nil, err
	}

	eventType := models.EventStatusChanged
	if target == models.StatusCompleted {
		eventType = models.EventCompleted
	}
	ev := events.FromBooking(eventType, result.Booking, s.now())
	ev.Settlement = result.Settlement
	log.Printf("✅ Booking %d moved %s -> %s", result.Booking.ID, from, target)
	s.publish(ctx, ev)
	return result, nil
}

// checkTransition enforces the gate, terminality and the single step rule
func checkTransition(b *models.Booking, target models.ServiceStatus) error {
	if b.DecoratorResponse != models.ResponseAccepted {
		return &InvalidTransitionError{
			From:    b.ServiceStatus,
			To:      target,
			Message: "the decorator must accept the assignment before updating progress",
		}
	}
	if b.ServiceStatus.IsTerminal() {
		return &InvalidTransitionError{From: b.ServiceStatus, To: target, Message: "booking is already completed"}
	}
	next, _ := b.ServiceStatus.Next()
	if target != next {
		return &InvalidTransitionError{
			From:    b.ServiceStatus,
			To:      target,
			Message: fmt.Sprintf("complete the previous stage first: the next stage after %s is %s", b.ServiceStatus, next),
		}
	}
	return nil
}

// CancelBooking hard deletes a booking that has not started
func (s *bookingService) CancelBooking(ctx context.Context, actor types.Actor, bookingID uint) error {
	var booking *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.load(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if actor.Anonymous() || b.UserEmail != models.NormalizeEmail(actor.Email) {
			return denied(actor.Email, "cancel this booking")
		}
		if b.ServiceStatus != models.StatusPending {
			return &InvalidTransitionError{
				From:    b.ServiceStatus,
				To:      b.ServiceStatus,
				Message: "only bookings that have not started can be cancelled",
			}
		}
		if err := s.record(ctx, tx, b, models.EventCancelled, b.ServiceStatus, "", actor, ""); err != nil {
			return err
		}
		if err := s.bookingRepo.Delete(ctx, tx, b.ID); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		booking = b
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ Booking %d cancelled by %s", booking.ID, actor.Email)
	s.publish(ctx, events.FromBooking(models.EventCancelled, booking, s.now()))
	return nil
}

// TodaySchedule lists unfinished jobs on the calendar day of at. Decorators see
// their own; admins see one decorator's, or every assigned job when decoratorEmail is empty.
func (s *bookingService) TodaySchedule(ctx context.Context, actor types.Actor, decoratorEmail string, at time.Time) ([]models.Booking, error) {
	switch {
	case actor.IsAdmin():
	case actor.IsDecorator():
		if decoratorEmail != "" && models.NormalizeEmail(decoratorEmail) != models.NormalizeEmail(actor.Email) {
			return nil, denied(actor.Email, "view another decorator's schedule")
		}
		decoratorEmail = actor.Email
	default:
		return nil, denied(actor.Email, "view a decorator schedule")
	}
	day := now.With(at)
	from, to := day.BeginningOfDay(), day.EndOfDay()
	bookings, err := s.bookingRepo.List(ctx, models.BookingFilter{
		DecoratorEmail: decoratorEmail,
		From:           &from,
		To:             &to,
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.HasDecorator() && !b.IsCompleted() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *bookingService) History(ctx context.Context, actor types.Actor, bookingID uint) ([]models.BookingEvent, error) {
	if _, err := s.GetBooking(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListEvents(ctx, bookingID)
}

func (s *bookingService) load(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return b, nil
}

func (s *bookingService) record(ctx context.Context, tx *gorm.DB, b *models.Booking, eventType models.BookingEventType, from, to models.ServiceStatus, actor types.Actor, note string) error {
	ev := &models.BookingEvent{
		BookingID:  b.ID,
		Type:       eventType,
		FromStatus: from,
		ToStatus:   to,
		ActorEmail: models.NormalizeEmail(actor.Email),
		Note:       note,
	}
	if err := s.bookingRepo.AppendEvent(ctx, tx, ev); err != nil {
		return fmt.Errorf("append booking event: %w", err)
	}
	return nil
}

func (s *bookingService) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		log.Printf("⚠️ Booking %d event %s not delivered: %v", ev.BookingID, ev.Type, err)
	}
}

func canView(actor types.Actor, b *models.Booking) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.Anonymous() {
		return false
	}
	return b.UserEmail == models.NormalizeEmail(actor.Email) || b.AssignedTo(actor.Email)
}
