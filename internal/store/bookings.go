package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campus-booking-backend/internal/model"
)

// BookingFilter narrows a booking listing.
type BookingFilter struct {
	ResourceID int64
	SessionID  int64
	Status     model.BookingStatus
	GroupID    string
	From       time.Time
	To         time.Time
}

func (s *gormStore) CreateBooking(ctx context.Context, b *model.ResourceBooking) error {
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	return s.db.WithContext(ctx).Create(b).Error
}

// CreateBookings inserts all rows in one transaction so a multi-resource
// session booking is all-or-nothing.
func (s *gormStore) CreateBookings(ctx context.Context, bs []model.ResourceBooking) ([]model.ResourceBooking, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range bs {
			if bs[i].Status == "" {
				bs[i].Status = model.BookingPending
			}
			if err := tx.Create(&bs[i]).Error; err != nil {
				return fmt.Errorf("failed to create booking on resource %d: %w", bs[i].ResourceID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bs, nil
}

func (s *gormStore) BookingByID(ctx context.Context, schoolID, id int64) (*model.ResourceBooking, error) {
	var b model.ResourceBooking
	if err := s.db.WithContext(ctx).Where("school_id = ?", schoolID).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *gormStore) ListBookings(ctx context.Context, schoolID int64, f BookingFilter) ([]model.ResourceBooking, error) {
	q := s.db.WithContext(ctx).Where("school_id = ?", schoolID)
	if f.ResourceID > 0 {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	if f.SessionID > 0 {
		q = q.Where("session_id = ?", f.SessionID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.GroupID != "" {
		q = q.Where("recurrence_group_id = ?", f.GroupID)
	}
	if !f.From.IsZero() {
		q = q.Where("end_datetime > ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("start_datetime < ?", f.To)
	}
	var rows []model.ResourceBooking
	err := q.Order("start_datetime").Find(&rows).Error
	return rows, err
}

func (s *gormStore) UpdateBooking(ctx context.Context, b *model.ResourceBooking) error {
	return s.db.WithContext(ctx).Save(b).Error
}

// OverlappingBookings returns active bookings on the resource whose interval
// intersects the buffered candidate window computed by the conflict checker.
func (s *gormStore) OverlappingBookings(ctx context.Context, schoolID, resourceID int64, startBefore, endAfter time.Time, excludeID int64) ([]model.ResourceBooking, error) {
	q := s.db.WithContext(ctx).
		Where("school_id = ? AND resource_id = ?", schoolID, resourceID).
		Where("status IN ?", model.ActiveBookingStatuses).
		Where("start_datetime < ? AND end_datetime > ?", startBefore, endAfter)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []model.ResourceBooking
	err := q.Order("start_datetime").Find(&rows).Error
	return rows, err
}

// CancelBookingsByGroup cancels every non-cancelled booking sharing the
// recurrence group and returns the rows it changed. Re-running it changes
// nothing and returns an empty slice.
func (s *gormStore) CancelBookingsByGroup(ctx context.Context, schoolID int64, groupID, reason string) ([]model.ResourceBooking, error) {
	var rows []model.ResourceBooking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("school_id = ? AND recurrence_group_id = ? AND status <> ?",
				schoolID, groupID, model.BookingCancelled).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		updates := map[string]any{"status": model.BookingCancelled}
		if reason != "" {
			updates["cancel_reason"] = reason
		}
		ids := make([]int64, len(rows))
		for i := range rows {
			ids[i] = rows[i].ID
			rows[i].Status = model.BookingCancelled
			if reason != "" {
				rows[i].CancelReason = &reason
			}
		}
		return tx.Model(&model.ResourceBooking{}).Where("id IN ?", ids).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CompleteElapsed transitions confirmed bookings whose end has passed to
// completed, across all tenants. Called by the background sweeper.
func (s *gormStore) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.ResourceBooking{}).
		Where("status = ? AND end_datetime <= ?", model.BookingConfirmed, now).
		Update("status", model.BookingCompleted)
	return res.RowsAffected, res.Error
}
