package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
)

type PaymentRepository interface {
	CreateSession(ctx context.Context, session *models.CheckoutSession) error
	FindSession(ctx context.Context, tx *gorm.DB, sessionID string) (*models.CheckoutSession, error)
	SaveSession(ctx context.Context, tx *gorm.DB, session *models.CheckoutSession) error
	ExpireSessions(ctx context.Context, before time.Time) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	FindBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*models.Payment, error)
	FindByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error)
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
	GetDB() *gorm.DB
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *paymentRepository) CreateSession(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *paymentRepository) FindSession(ctx context.Context, tx *gorm.DB, sessionID string) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	if err := conn(ctx, r.db, tx).Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *paymentRepository) SaveSession(ctx context.Context, tx *gorm.DB, session *models.CheckoutSession) error {
	return conn(ctx, r.db, tx).Save(session).Error
}

// ExpireSessions closes open sessions whose deadline passed
func (r *paymentRepository) ExpireSessions(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CheckoutSession{}).
		Where("status = ? AND expires_at <= ?", models.CheckoutOpen, before).
		Update("status", models.CheckoutExpired)
	return res.RowsAffected, res.Error
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return conn(ctx, r.db, tx).Create(payment).Error
}

func (r *paymentRepository) FindBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(ctx, r.db, tx).Where("session_id = ?", sessionID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(ctx, r.db, tx).Where("booking_id = ?", bookingID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByEmail returns a customer's payments, or all payments when email is empty
func (r *paymentRepository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	var payments []models.Payment
	q := r.db.WithContext(ctx)
	if email != "" {
		q = q.Where("customer_email = ?", models.NormalizeEmail(email))
	}
	err := q.Order("paid_at DESC, id DESC").Find(&payments).Error
	return payments, err
}
