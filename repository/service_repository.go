package repository

import (
	"context"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	FindByID(ctx context.Context, id uint) (*models.Service, error)
	Save(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *serviceRepository) FindByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) Save(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

// Delete reports whether a row was removed
func (r *serviceRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Service{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *serviceRepository) List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	var services []models.Service
	q := r.db.WithContext(ctx)
	if filter.Search != "" {
		q = q.Where("LOWER(service_name) LIKE ?", likePattern(filter.Search))
	}
	if filter.Category != "" {
		q = q.Where("LOWER(service_category) = LOWER(?)", filter.Category)
	}
	if filter.MinBudget != nil {
		q = q.Where("cost >= ?", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		q = q.Where("cost <= ?", *filter.MaxBudget)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
