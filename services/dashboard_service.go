package services

import (
	"context"
	"time"

	"decor-marketplace-server/commission"
	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
)

// AdminDashboard is the platform wide overview
type AdminDashboard struct {
	commission.Summary
	TotalBookings      int                          `json:"totalBookings"`
	AwaitingAssignment int                          `json:"awaitingAssignment"`
	AwaitingResponse   int                          `json:"awaitingResponse"`
	ByStatus           map[models.ServiceStatus]int `json:"byStatus"`
	Demand             []models.CategoryDemand      `json:"demand"`
}

// UserDashboard summarises a client's spending
type UserDashboard struct {
	TotalSpent     float64 `json:"totalSpent"`
	PaymentCount   int     `json:"paymentCount"`
	BookingCount   int     `json:"bookingCount"`
	ActiveBookings int     `json:"activeBookings"`
}

// DecoratorDashboard summarises a decorator's work
type DecoratorDashboard struct {
	commission.Earnings
	PendingResponses int              `json:"pendingResponses"`
	ActiveJobs       int              `json:"activeJobs"`
	TodaySchedule    []models.Booking `json:"todaySchedule"`
}

type DashboardService interface {
	Admin(ctx context.Context, actor types.Actor) (*AdminDashboard, error)
	User(ctx context.Context, actor types.Actor) (*UserDashboard, error)
	Decorator(ctx context.Context, actor types.Actor) (*DecoratorDashboard, error)
}

type dashboardService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	bookings    BookingService
	now         func() time.Time
}

func NewDashboardService(bookingRepo repository.BookingRepository, paymentRepo repository.PaymentRepository, bookings BookingService) DashboardService {
	return &dashboardService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		bookings:    bookings,
		now:         time.Now,
	}
}

func (s *dashboardService) Admin(ctx context.Context, actor types.Actor) (*AdminDashboard, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "view the admin dashboard")
	}
	all, err := s.bookingRepo.List(ctx, models.BookingFilter{})
	if err != nil {
		return nil, err
	}
	demand, err := s.bookingRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	out := &AdminDashboard{
		Summary:       commission.Summarize(all),
		TotalBookings: len(all),
		ByStatus:      make(map[models.ServiceStatus]int),
		Demand:        demand,
	}
	for _, st := range models.ServiceStatuses() {
		out.ByStatus[st] = 0
	}
	for i := range all {
		b := &all[i]
		out.ByStatus[b.ServiceStatus]++
		if b.IsPaid() && b.ServiceStatus == models.StatusPending && !b.HasDecorator() {
			out.AwaitingAssignment++
		}
		if b.HasDecorator() && b.DecoratorResponse == models.ResponsePending {
			out.AwaitingResponse++
		}
	}
	return out, nil
}

func (s *dashboardService) User(ctx context.Context, actor types.Actor) (*UserDashboard, error) {
	if actor.Anonymous() {
		return nil, denied("", "view the dashboard")
	}
	payments, err := s.paymentRepo.ListByEmail(ctx, actor.Email)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.List(ctx, models.BookingFilter{UserEmail: actor.Email})
	if err != nil {
		return nil, err
	}

	out := &UserDashboard{PaymentCount: len(payments), BookingCount: len(bookings)}
	for _, p := range payments {
		out.TotalSpent += p.Amount
	}
	for i := range bookings {
		if !bookings[i].IsCompleted() {
			out.ActiveBookings++
		}
	}
	return out, nil
}

func (s *dashboardService) Decorator(ctx context.Context, actor types.Actor) (*DecoratorDashboard, error) {
	if !actor.IsDecorator() {
		return nil, denied(actor.Email, "view the decorator dashboard")
	}
	assigned, err := s.bookingRepo.List(ctx, models.BookingFilter{DecoratorEmail: actor.Email})
	if err != nil {
		return nil, err
	}
	today, err := s.bookings.TodaySchedule(ctx, actor, "", s.now())
	if err != nil {
		return nil, err
	}

	out := &DecoratorDashboard{
		Earnings:      commission.DecoratorEarnings(assigned, actor.Email),
		TodaySchedule: today,
	}
	for i := range assigned {
		b := &assigned[i]
		switch {
		case b.DecoratorResponse == models.ResponsePending:
			out.PendingResponses++
		case b.DecoratorResponse == models.ResponseAccepted && !b.IsCompleted():
			out.ActiveJobs++
		}
	}
	return out, nil
}
