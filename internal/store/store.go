package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"campus-booking-backend/config"
	"campus-booking-backend/internal/booking"
	"campus-booking-backend/internal/model"
)

// Store defines the interface for all database operations. Every method is
// scoped to the calling school; rows of other tenants are invisible.
type Store interface {
	DB() *gorm.DB

	SchoolByToken(ctx context.Context, token string) (*model.School, error)

	CreateResource(ctx context.Context, r *model.Resource) error
	ResourceByID(ctx context.Context, schoolID, id int64) (*model.Resource, error)
	ResourcesByIDs(ctx context.Context, schoolID int64, ids []int64) ([]model.Resource, error)
	ListResources(ctx context.Context, schoolID int64, f booking.ResourceFilter) ([]model.Resource, error)
	UpdateResource(ctx context.Context, r *model.Resource) error
	DeleteResource(ctx context.Context, schoolID, id int64, now time.Time) error

	CreateBooking(ctx context.Context, b *model.ResourceBooking) error
	CreateBookings(ctx context.Context, bs []model.ResourceBooking) ([]model.ResourceBooking, error)
	BookingByID(ctx context.Context, schoolID, id int64) (*model.ResourceBooking, error)
	ListBookings(ctx context.Context, schoolID int64, f BookingFilter) ([]model.ResourceBooking, error)
	UpdateBooking(ctx context.Context, b *model.ResourceBooking) error
	OverlappingBookings(ctx context.Context, schoolID, resourceID int64, startBefore, endAfter time.Time, excludeID int64) ([]model.ResourceBooking, error)
	CancelBookingsByGroup(ctx context.Context, schoolID int64, groupID, reason string) ([]model.ResourceBooking, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)

	CreateStaff(ctx context.Context, s *model.Staff) error
	StaffByID(ctx context.Context, schoolID, id int64) (*model.Staff, error)
	ListStaff(ctx context.Context, schoolID int64) ([]model.Staff, error)
	ActiveStaff(ctx context.Context, schoolID int64) ([]model.Staff, error)
	UpdateStaff(ctx context.Context, s *model.Staff) error
	DeleteStaff(ctx context.Context, schoolID, id int64) error

	CreateResourceSet(ctx context.Context, set *model.ResourceSet, memberIDs []int64) error
	ListResourceSets(ctx context.Context, schoolID int64) ([]model.ResourceSet, error)
	DeleteResourceSet(ctx context.Context, schoolID, id int64) error

	CreateInvitation(ctx context.Context, inv *model.Invitation) error
	DeleteInvitation(ctx context.Context, id int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db       *gorm.DB
	defaults config.BookingConfig
}

// NewGormStore creates a new GORM-backed store applying the given booking
// defaults at resource creation.
func NewGormStore(db *gorm.DB, defaults config.BookingConfig) Store {
	return &gormStore{db: db, defaults: defaults}
}

// DB exposes the underlying connection for handlers that compose their own
// queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SchoolByToken resolves an API token to its owning school.
func (s *gormStore) SchoolByToken(ctx context.Context, token string) (*model.School, error) {
	var school model.School
	if err := s.db.WithContext(ctx).First(&school, "api_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

// CreateResource validates required fields, applies configured defaults and
// inserts the row.
func (s *gormStore) CreateResource(ctx context.Context, r *model.Resource) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return &booking.ValidationError{Field: "name", Reason: "required"}
	}
	if !r.Type.Valid() {
		return &booking.ValidationError{Field: "resource_type", Reason: fmt.Sprintf("unknown type %q", r.Type)}
	}

	if r.Capacity == 0 {
		r.Capacity = s.defaults.DefaultCapacity
	}
	if r.Capacity < 1 {
		return &booking.ValidationError{Field: "capacity", Reason: "must be at least 1"}
	}
	if r.MinBookingDuration == 0 {
		r.MinBookingDuration = s.defaults.DefaultMinDurationMinutes
	}
	if r.MaxBookingDuration == 0 {
		r.MaxBookingDuration = s.defaults.DefaultMaxDurationMinutes
	}
	if r.MinBookingDuration > r.MaxBookingDuration {
		return &booking.ValidationError{Field: "min_booking_duration", Reason: "must not exceed max_booking_duration"}
	}
	if r.BufferTimeAfter == 0 {
		r.BufferTimeAfter = s.defaults.DefaultBufferAfterMinutes
	}
	if r.AdvanceBookingDays == 0 {
		r.AdvanceBookingDays = s.defaults.DefaultAdvanceBookingDays
	}
	if r.Features == nil {
		r.Features = model.FeatureMap{}
	}

	return s.db.WithContext(ctx).Create(r).Error
}

func (s *gormStore) ResourceByID(ctx context.Context, schoolID, id int64) (*model.Resource, error) {
	var r model.Resource
	if err := s.db.WithContext(ctx).Where("school_id = ?", schoolID).First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *gormStore) ResourcesByIDs(ctx context.Context, schoolID int64, ids []int64) ([]model.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []model.Resource
	err := s.db.WithContext(ctx).Where("school_id = ? AND id IN ?", schoolID, ids).Find(&rows).Error
	return rows, err
}

// ListResources returns the school's resources filtered and ordered by name.
func (s *gormStore) ListResources(ctx context.Context, schoolID int64, f booking.ResourceFilter) ([]model.Resource, error) {
	q := s.db.WithContext(ctx).Where("school_id = ?", schoolID)
	if f.Type != "" {
		q = q.Where("resource_type = ?", f.Type)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}
	if f.NameQuery != "" {
		q = q.Where("name LIKE ?", "%"+f.NameQuery+"%")
	}
	var rows []model.Resource
	err := q.Order("name").Find(&rows).Error
	return rows, err
}

func (s *gormStore) UpdateResource(ctx context.Context, r *model.Resource) error {
	if r.Capacity < 1 {
		return &booking.ValidationError{Field: "capacity", Reason: "must be at least 1"}
	}
	if r.MinBookingDuration > r.MaxBookingDuration {
		return &booking.ValidationError{Field: "min_booking_duration", Reason: "must not exceed max_booking_duration"}
	}
	return s.db.WithContext(ctx).Save(r).Error
}

// DeleteResource refuses to remove a resource that still has confirmed future
// bookings; scheduled sessions must never be silently orphaned. Removing a
// resource is the one place booking rows are hard-deleted: its history goes
// with it.
func (s *gormStore) DeleteResource(ctx context.Context, schoolID, id int64, now time.Time) error {
	if _, err := s.ResourceByID(ctx, schoolID, id); err != nil {
		return err
	}

	var future int64
	err := s.db.WithContext(ctx).Model(&model.ResourceBooking{}).
		Where("school_id = ? AND resource_id = ? AND status = ? AND start_datetime > ?",
			schoolID, id, model.BookingConfirmed, now).
		Count(&future).Error
	if err != nil {
		return err
	}
	if future > 0 {
		return &booking.ResourceInUseError{ResourceID: id, FutureBookings: future}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("school_id = ? AND resource_id = ?", schoolID, id).Delete(&model.ResourceBooking{}).Error; err != nil {
			return err
		}
		return tx.Where("school_id = ?", schoolID).Delete(&model.Resource{}, id).Error
	})
}
