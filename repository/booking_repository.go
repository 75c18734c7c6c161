package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	ListOpenByDecorator(ctx context.Context, tx *gorm.DB, decoratorEmail string) ([]models.Booking, error)
	CountByCategory(ctx context.Context) ([]models.CategoryDemand, error)
	HasOpenBookingOn(ctx context.Context, decoratorEmail string, from, to time.Time) (bool, error)
	AppendEvent(ctx context.Context, tx *gorm.DB, event *models.BookingEvent) error
	ListEvents(ctx context.Context, bookingID uint) ([]models.BookingEvent, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(ctx, r.db, tx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := conn(ctx, r.db, tx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// Save writes every column, including cleared decorator fields
func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(ctx, r.db, tx).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return conn(ctx, r.db, tx).Delete(&models.Booking{}, id).Error
}

func (r *bookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx)
	if filter.UserEmail != "" {
		q = q.Where("user_email = ?", models.NormalizeEmail(filter.UserEmail))
	}
	if filter.DecoratorEmail != "" {
		q = q.Where("decorator_email = ?", models.NormalizeEmail(filter.DecoratorEmail))
	}
	if filter.ServiceStatus != "" {
		q = q.Where("service_status = ?", filter.ServiceStatus)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.From != nil {
		q = q.Where("service_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("service_date <= ?", *filter.To)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListOpenByDecorator returns the unfinished bookings still assigned to the decorator
func (r *bookingRepository) ListOpenByDecorator(ctx context.Context, tx *gorm.DB, decoratorEmail string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := conn(ctx, r.db, tx).
		Where("decorator_email = ? AND service_status <> ?", models.NormalizeEmail(decoratorEmail), models.StatusCompleted).
		Order("id ASC").
		Find(&bookings).Error
	return bookings, err
}

// CountByCategory returns booking counts per service category, most booked first
func (r *bookingRepository) CountByCategory(ctx context.Context) ([]models.CategoryDemand, error) {
	var demand []models.CategoryDemand
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("service_category AS category, COUNT(*) AS count").
		Group("service_category").
		Order("count DESC, category ASC").
		Scan(&demand).Error
	return demand, err
}

// HasOpenBookingOn reports whether the decorator already holds an unfinished job in the window
func (r *bookingRepository) HasOpenBookingOn(ctx context.Context, decoratorEmail string, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("decorator_email = ? AND service_status <> ? AND decorator_response IN ?",
			models.NormalizeEmail(decoratorEmail), models.StatusCompleted,
			[]models.DecoratorResponse{models.ResponsePending, models.ResponseAccepted}).
		Where("service_date >= ? AND service_date <= ?", from, to).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) AppendEvent(ctx context.Context, tx *gorm.DB, event *models.BookingEvent) error {
	return conn(ctx, r.db, tx).Create(event).Error
}

func (r *bookingRepository) ListEvents(ctx context.Context, bookingID uint) ([]models.BookingEvent, error) {
	var events []models.BookingEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
