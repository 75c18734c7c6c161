package repository

import (
	"context"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
)

type DecoratorRepository interface {
	Create(ctx context.Context, decorator *models.Decorator) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Decorator, error)
	FindByEmail(ctx context.Context, email string) (*models.Decorator, error)
	Save(ctx context.Context, tx *gorm.DB, decorator *models.Decorator) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	List(ctx context.Context, filter models.DecoratorFilter) ([]models.Decorator, error)
	GetDB() *gorm.DB
}

type decoratorRepository struct {
	db *gorm.DB
}

func NewDecoratorRepository(db *gorm.DB) DecoratorRepository {
	return &decoratorRepository{db: db}
}

func (r *decoratorRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *decoratorRepository) Create(ctx context.Context, decorator *models.Decorator) error {
	return r.db.WithContext(ctx).Create(decorator).Error
}

func (r *decoratorRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Decorator, error) {
	var decorator models.Decorator
	if err := conn(ctx, r.db, tx).First(&decorator, id).Error; err != nil {
		return nil, err
	}
	return &decorator, nil
}

func (r *decoratorRepository) FindByEmail(ctx context.Context, email string) (*models.Decorator, error) {
	var decorator models.Decorator
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&decorator).Error; err != nil {
		return nil, err
	}
	return &decorator, nil
}

func (r *decoratorRepository) Save(ctx context.Context, tx *gorm.DB, decorator *models.Decorator) error {
	return conn(ctx, r.db, tx).Save(decorator).Error
}

func (r *decoratorRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	res := conn(ctx, r.db, tx).Delete(&models.Decorator{}, id)
	return res.RowsAffected > 0, res.Error
}

// List filters in SQL except expertise, which lives in an array column
func (r *decoratorRepository) List(ctx context.Context, filter models.DecoratorFilter) ([]models.Decorator, error) {
	var decorators []models.Decorator
	q := r.db.WithContext(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.WorkStatus != "" {
		q = q.Where("LOWER(work_status) = LOWER(?)", filter.WorkStatus)
	}
	if filter.District != "" {
		q = q.Where("LOWER(district) = LOWER(?)", filter.District)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&decorators).Error; err != nil {
		return nil, err
	}

	if filter.Expertise == "" {
		return decorators, nil
	}
	matched := make([]models.Decorator, 0, len(decorators))
	for _, d := range decorators {
		if d.HasExpertise(filter.Expertise) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}
