package repository

import (
	"context"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Save(ctx context.Context, tx *gorm.DB, user *models.User) error
	Search(ctx context.Context, term string) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db, tx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return conn(ctx, r.db, tx).Save(user).Error
}

// Search matches display name or email, case-insensitively
func (r *userRepository) Search(ctx context.Context, term string) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx)
	if term != "" {
		pattern := likePattern(term)
		q = q.Where("LOWER(display_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	err := q.Order("created_at DESC, id DESC").Limit(200).Find(&users).Error
	return users, err
}
