package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
)

type CatalogService interface {
	List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error)
	Get(ctx context.Context, id uint) (*models.Service, error)
	Create(ctx context.Context, actor types.Actor, req models.ServiceRequest) (*models.Service, error)
	Update(ctx context.Context, actor types.Actor, id uint, req models.ServiceRequest) (*models.Service, error)
	Delete(ctx context.Context, actor types.Actor, id uint) error
	Demand(ctx context.Context) ([]models.CategoryDemand, error)
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
	bookingRepo repository.BookingRepository
}

func NewCatalogService(serviceRepo repository.ServiceRepository, bookingRepo repository.BookingRepository) CatalogService {
	return &catalogService{serviceRepo: serviceRepo, bookingRepo: bookingRepo}
}

func (s *catalogService) List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	if filter.MinBudget != nil && filter.MaxBudget != nil && *filter.MinBudget > *filter.MaxBudget {
		return nil, invalid("minBudget", "must not exceed maxBudget")
	}
	return s.serviceRepo.List(ctx, filter)
}

func (s *catalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("load service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) Create(ctx context.Context, actor types.Actor, req models.ServiceRequest) (*models.Service, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "create services")
	}
	if err := validateServiceRequest(req); err != nil {
		return nil, err
	}

	svc := &models.Service{CreatedByEmail: models.NormalizeEmail(actor.Email)}
	req.Apply(svc)
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	log.Printf("✅ Service %d (%s) created by %s", svc.ID, svc.ServiceName, actor.Email)
	return svc, nil
}

// Update never touches existing bookings, which keep their snapshot
func (s *catalogService) Update(ctx context.Context, actor types.Actor, id uint, req models.ServiceRequest) (*models.Service, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "update services")
	}
	if err := validateServiceRequest(req); err != nil {
		return nil, err
	}
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(svc)
	if err := s.serviceRepo.Save(ctx, svc); err != nil {
		return nil, fmt.Errorf("save service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	if !actor.IsAdmin() {
		return denied(actor.Email, "delete services")
	}
	deleted, err := s.serviceRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if !deleted {
		return ErrServiceNotFound
	}
	log.Printf("🗑️ Service %d deleted by %s", id, actor.Email)
	return nil
}

// Demand counts bookings per service category, most booked first
func (s *catalogService) Demand(ctx context.Context) ([]models.CategoryDemand, error) {
	return s.bookingRepo.CountByCategory(ctx)
}

func validateServiceRequest(req models.ServiceRequest) error {
	if strings.TrimSpace(req.ServiceName) == "" {
		return invalid("service_name", "is required")
	}
	if strings.TrimSpace(req.ServiceCategory) == "" {
		return invalid("service_category", "is required")
	}
	if req.Cost <= 0 {
		return invalid("cost", "must be greater than zero")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return invalid("rating", "must be between 0 and 5")
	}
	return nil
}
