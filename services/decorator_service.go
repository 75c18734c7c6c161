package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"decor-marketplace-server/commission"
	"decor-marketplace-server/events"
	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
)

// AvailabilityQuery narrows the decorators an admin can assign
type AvailabilityQuery struct {
	Date      *time.Time
	District  string
	Expertise string
}

type DecoratorService interface {
	Register(ctx context.Context, actor types.Actor, req models.DecoratorCreate) (*models.Decorator, error)
	List(ctx context.Context, actor types.Actor, filter models.DecoratorFilter) ([]models.Decorator, error)
	ListAvailable(ctx context.Context, actor types.Actor, q AvailabilityQuery) ([]models.Decorator, error)
	UpdateStatus(ctx context.Context, actor types.Actor, id uint, req models.DecoratorStatusUpdate) (*models.Decorator, error)
	Delete(ctx context.Context, actor types.Actor, id uint) error
	Earnings(ctx context.Context, actor types.Actor, email string) (*commission.Earnings, error)
}

type decoratorService struct {
	decoratorRepo repository.DecoratorRepository
	bookingRepo   repository.BookingRepository
	userRepo      repository.UserRepository
	publisher     events.Publisher
	now           func() time.Time
}

func NewDecoratorService(
	decoratorRepo repository.DecoratorRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
) DecoratorService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &decoratorService{
		decoratorRepo: decoratorRepo,
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		publisher:     publisher,
		now:           time.Now,
	}
}

// Register files a pending application for the signed in account
func (s *decoratorService) Register(ctx context.Context, actor types.Actor, req models.DecoratorCreate) (*models.Decorator, error) {
	if actor.Anonymous() {
		return nil, denied("", "apply as a decorator")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalid("name", "is required")
	}
	if req.Age < 18 {
		return nil, invalid("age", "decorators must be at least 18")
	}
	if len(req.Expertise) == 0 {
		return nil, invalid("expertise", "at least one area of expertise is required")
	}
	if strings.TrimSpace(req.District) == "" {
		return nil, invalid("district", "is required")
	}

	if _, err := s.decoratorRepo.FindByEmail(ctx, actor.Email); err == nil {
		return nil, fmt.Errorf("decorator application for %s %w", actor.Email, ErrAlreadyExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check decorator: %w", err)
	}

	d := &models.Decorator{
		Name:       strings.TrimSpace(req.Name),
		Email:      models.NormalizeEmail(actor.Email),
		Age:        req.Age,
		Phone:      strings.TrimSpace(req.Phone),
		Expertise:  pq.StringArray(req.Expertise),
		Region:     strings.TrimSpace(req.Region),
		District:   strings.TrimSpace(req.District),
		Status:     models.DecoratorPending,
		WorkStatus: models.WorkStatusAvailable,
	}
	if err := s.decoratorRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create decorator: %w", err)
	}

	log.Printf("✅ Decorator application %d received from %s", d.ID, d.Email)
	return d, nil
}

func (s *decoratorService) List(ctx context.Context, actor types.Actor, filter models.DecoratorFilter) ([]models.Decorator, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "list decorators")
	}
	return s.decoratorRepo.List(ctx, filter)
}

// ListAvailable returns approved decorators marked available, optionally in a
// district and free of unfinished jobs on the given day
func (s *decoratorService) ListAvailable(ctx context.Context, actor types.Actor, q AvailabilityQuery) ([]models.Decorator, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "list available decorators")
	}
	candidates, err := s.decoratorRepo.List(ctx, models.DecoratorFilter{
		Status:     models.DecoratorApproved,
		WorkStatus: models.WorkStatusAvailable,
		District:   strings.TrimSpace(q.District),
		Expertise:  strings.TrimSpace(q.Expertise),
	})
	if err != nil {
		return nil, err
	}
	if q.Date == nil {
		return candidates, nil
	}

	day := now.With(*q.Date)
	from, to := day.BeginningOfDay(), day.EndOfDay()
	available := make([]models.Decorator, 0, len(candidates))
	for _, d := range candidates {
		busy, err := s.bookingRepo.HasOpenBookingOn(ctx, d.Email, from, to)
		if err != nil {
			return nil, fmt.Errorf("check schedule for %s: %w", d.Email, err)
		}
		if !busy {
			available = append(available, d)
		}
	}
	return available, nil
}

// UpdateStatus applies an admin decision and keeps the account role in step.
// Leaving approved returns the decorator's unfinished bookings to the assignment pool.
func (s *decoratorService) UpdateStatus(ctx context.Context, actor types.Actor, id uint, req models.DecoratorStatusUpdate) (*models.Decorator, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "change decorator status")
	}
	if req.Status == "" && req.WorkStatus == "" {
		return nil, invalid("status", "status or workStatus is required")
	}
	if req.Status != "" && !req.Status.IsValid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", req.Status))
	}

	var (
		decorator *models.Decorator
		released  []models.Booking
	)
	err := s.decoratorRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := s.decoratorRepo.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDecoratorNotFound
			}
			return fmt.Errorf("load decorator: %w", err)
		}

		statusChanged := req.Status != "" && req.Status != d.Status
		if statusChanged && !d.Status.CanBecome(req.Status) {
			return invalid("status", fmt.Sprintf("a %s decorator cannot become %s", d.Status, req.Status))
		}
		if statusChanged {
			d.Status = req.Status
		}
		if ws := strings.TrimSpace(req.WorkStatus); ws != "" {
			d.WorkStatus = ws
		}
		if err := s.decoratorRepo.Save(ctx, tx, d); err != nil {
			return fmt.Errorf("save decorator: %w", err)
		}
		decorator = d

		if !statusChanged {
			return nil
		}
		if d.Status == models.DecoratorApproved {
			return s.syncRole(ctx, tx, d.Email, models.RoleDecorator)
		}
		released, err = s.releaseBookings(ctx, tx, actor, d.Email, "decorator "+string(d.Status))
		if err != nil {
			return err
		}
		return s.syncRole(ctx, tx, d.Email, models.RoleUser)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Decorator %d is now %s (%s)", decorator.ID, decorator.Status, decorator.WorkStatus)
	s.publishReleased(ctx, released, decorator.Email)
	return decorator, nil
}

func (s *decoratorService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	if !actor.IsAdmin() {
		return denied(actor.Email, "delete decorators")
	}

	var (
		email    string
		released []models.Booking
	)
	err := s.decoratorRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := s.decoratorRepo.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDecoratorNotFound
			}
			return fmt.Errorf("load decorator: %w", err)
		}
		deleted, err := s.decoratorRepo.Delete(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete decorator: %w", err)
		}
		if !deleted {
			return ErrDecoratorNotFound
		}
		email = d.Email

		released, err = s.releaseBookings(ctx, tx, actor, d.Email, "decorator removed")
		if err != nil {
			return err
		}
		return s.syncRole(ctx, tx, d.Email, models.RoleUser)
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ Decorator %d (%s) deleted", id, email)
	s.publishReleased(ctx, released, email)
	return nil
}

// Earnings totals the decorator side of every completed job
func (s *decoratorService) Earnings(ctx context.Context, actor types.Actor, email string) (*commission.Earnings, error) {
	if email == "" {
		email = actor.Email
	}
	if !actor.IsAdmin() && (!actor.IsDecorator() || models.NormalizeEmail(email) != models.NormalizeEmail(actor.Email)) {
		return nil, denied(actor.Email, "view these earnings")
	}
	bookings, err := s.bookingRepo.List(ctx, models.BookingFilter{
		DecoratorEmail: email,
		ServiceStatus:  models.StatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	earnings := commission.DecoratorEarnings(bookings, email)
	return &earnings, nil
}

// releaseBookings clears the decorator from every unfinished booking and writes
// one audit row per booking so the admin can reassign it
func (s *decoratorService) releaseBookings(ctx context.Context, tx *gorm.DB, actor types.Actor, email, reason string) ([]models.Booking, error) {
	open, err := s.bookingRepo.ListOpenByDecorator(ctx, tx, email)
	if err != nil {
		return nil, fmt.Errorf("load open bookings: %w", err)
	}
	for i := range open {
		b := &open[i]
		b.ClearDecorator()
		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return nil, fmt.Errorf("release booking %d: %w", b.ID, err)
		}
		if err := s.bookingRepo.AppendEvent(ctx, tx, &models.BookingEvent{
			BookingID:  b.ID,
			Type:       models.EventUnassigned,
			FromStatus: b.ServiceStatus,
			ToStatus:   b.ServiceStatus,
			ActorEmail: models.NormalizeEmail(actor.Email),
			Note:       reason + ": " + models.NormalizeEmail(email),
		}); err != nil {
			return nil, fmt.Errorf("append booking event: %w", err)
		}
	}
	return open, nil
}

func (s *decoratorService) publishReleased(ctx context.Context, released []models.Booking, email string) {
	for i := range released {
		b := &released[i]
		log.Printf("🔄 Booking %d returned to the assignment pool after %s left", b.ID, email)
		ev := events.FromBooking(models.EventUnassigned, b, s.now())
		ev.Note = models.NormalizeEmail(email)
		if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
			log.Printf("⚠️ Booking %d event %s not delivered: %v", b.ID, ev.Type, err)
		}
	}
}

// syncRole never touches admin accounts and ignores emails without an account
func (s *decoratorService) syncRole(ctx context.Context, tx *gorm.DB, email string, role models.UserRole) error {
	u, err := s.userRepo.FindByEmail(ctx, tx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}
	if u.IsAdmin() || u.Role == role {
		return nil
	}
	u.Role = role
	if err := s.userRepo.Save(ctx, tx, u); err != nil {
		return fmt.Errorf("save user role: %w", err)
	}
	return nil
}
