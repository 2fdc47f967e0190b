package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"campus-booking-backend/internal/booking"
	"campus-booking-backend/internal/model"
)

func (s *gormStore) CreateStaff(ctx context.Context, st *model.Staff) error {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return &booking.ValidationError{Field: "name", Reason: "required"}
	}
	if st.Availability == nil {
		st.Availability = model.WeeklyAvailability{}
	}
	return s.db.WithContext(ctx).Create(st).Error
}

func (s *gormStore) StaffByID(ctx context.Context, schoolID, id int64) (*model.Staff, error) {
	var st model.Staff
	if err := s.db.WithContext(ctx).Where("school_id = ?", schoolID).First(&st, id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *gormStore) ListStaff(ctx context.Context, schoolID int64) ([]model.Staff, error) {
	var rows []model.Staff
	err := s.db.WithContext(ctx).Where("school_id = ?", schoolID).Order("name").Find(&rows).Error
	return rows, err
}

func (s *gormStore) ActiveStaff(ctx context.Context, schoolID int64) ([]model.Staff, error) {
	var rows []model.Staff
	err := s.db.WithContext(ctx).
		Where("school_id = ? AND is_active = ?", schoolID, true).
		Order("name").Find(&rows).Error
	return rows, err
}

func (s *gormStore) UpdateStaff(ctx context.Context, st *model.Staff) error {
	return s.db.WithContext(ctx).Save(st).Error
}

func (s *gormStore) DeleteStaff(ctx context.Context, schoolID, id int64) error {
	return s.db.WithContext(ctx).Where("school_id = ?", schoolID).Delete(&model.Staff{}, id).Error
}

// CreateResourceSet inserts the set and its ordered members in one
// transaction, verifying every member belongs to the school.
func (s *gormStore) CreateResourceSet(ctx context.Context, set *model.ResourceSet, memberIDs []int64) error {
	set.Name = strings.TrimSpace(set.Name)
	if set.Name == "" {
		return &booking.ValidationError{Field: "name", Reason: "required"}
	}

	owned, err := s.ResourcesByIDs(ctx, set.SchoolID, memberIDs)
	if err != nil {
		return err
	}
	if len(owned) != len(memberIDs) {
		return &booking.ValidationError{Field: "resource_ids", Reason: "unknown resource in set"}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(set).Error; err != nil {
			return err
		}
		for i, id := range memberIDs {
			member := model.ResourceSetMember{SetID: set.ID, ResourceID: id, Position: i}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			set.Members = append(set.Members, member)
		}
		return nil
	})
}

func (s *gormStore) ListResourceSets(ctx context.Context, schoolID int64) ([]model.ResourceSet, error) {
	var rows []model.ResourceSet
	err := s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("school_id = ?", schoolID).Order("name").Find(&rows).Error
	return rows, err
}

func (s *gormStore) DeleteResourceSet(ctx context.Context, schoolID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var set model.ResourceSet
		if err := tx.Where("school_id = ?", schoolID).First(&set, id).Error; err != nil {
			return err
		}
		if err := tx.Where("set_id = ?", set.ID).Delete(&model.ResourceSetMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&set).Error
	})
}

func (s *gormStore) CreateInvitation(ctx context.Context, inv *model.Invitation) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s *gormStore) DeleteInvitation(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.Invitation{}, id).Error
}
