package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-booking-backend/config"
	"campus-booking-backend/internal/booking"
	"campus-booking-backend/internal/db"
	"campus-booking-backend/internal/model"
	"campus-booking-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	return store.NewGormStore(gormDB, config.BookingConfig{
		DefaultCapacity:           1,
		DefaultMinDurationMinutes: 30,
		DefaultMaxDurationMinutes: 480,
		DefaultBufferAfterMinutes: 15,
		DefaultAdvanceBookingDays: 90,
	})
}

func seedSchool(t *testing.T, s store.Store, name, token string) *model.School {
	t.Helper()
	school := &model.School{Name: name, APIToken: token}
	require.NoError(t, s.DB().Create(school).Error)
	return school
}

func TestCreateResourceAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-defaults")

	r := &model.Resource{
		SchoolID: school.ID,
		Name:     "  Room 101  ",
		Type:     model.ResourceTypePhysicalRoom,
		IsActive: true,
	}
	require.NoError(t, s.CreateResource(ctx, r))

	assert.Equal(t, "Room 101", r.Name)
	assert.Equal(t, 1, r.Capacity)
	assert.Equal(t, 30, r.MinBookingDuration)
	assert.Equal(t, 480, r.MaxBookingDuration)
	assert.Equal(t, 0, r.BufferTimeBefore)
	assert.Equal(t, 15, r.BufferTimeAfter)
	assert.Equal(t, 90, r.AdvanceBookingDays)
	assert.NotNil(t, r.Features)
}

func TestCreateResourceKeepsExplicitValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-explicit")

	r := &model.Resource{
		SchoolID:           school.ID,
		Name:               "Auditorium",
		Type:               model.ResourceTypePhysicalRoom,
		Capacity:           200,
		MinBookingDuration: 60,
		MaxBookingDuration: 240,
		BufferTimeAfter:    30,
		AdvanceBookingDays: 180,
	}
	require.NoError(t, s.CreateResource(ctx, r))

	assert.Equal(t, 200, r.Capacity)
	assert.Equal(t, 60, r.MinBookingDuration)
	assert.Equal(t, 240, r.MaxBookingDuration)
	assert.Equal(t, 30, r.BufferTimeAfter)
	assert.Equal(t, 180, r.AdvanceBookingDays)
}

func TestCreateResourceValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-validation")

	cases := []struct {
		name     string
		resource model.Resource
		field    string
	}{
		{
			name:     "blank name",
			resource: model.Resource{SchoolID: school.ID, Name: "   ", Type: model.ResourceTypePhysicalRoom},
			field:    "name",
		},
		{
			name:     "unknown type",
			resource: model.Resource{SchoolID: school.ID, Name: "Thing", Type: "hoverboard"},
			field:    "resource_type",
		},
		{
			name: "min exceeds max",
			resource: model.Resource{
				SchoolID: school.ID, Name: "Room", Type: model.ResourceTypePhysicalRoom,
				MinBookingDuration: 120, MaxBookingDuration: 60,
			},
			field: "min_booking_duration",
		},
		{
			name: "negative capacity",
			resource: model.Resource{
				SchoolID: school.ID, Name: "Room", Type: model.ResourceTypePhysicalRoom,
				Capacity: -3,
			},
			field: "capacity",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.resource
			err := s.CreateResource(ctx, &r)
			var validation *booking.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}
}

func TestListResourcesFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-list")

	seed := []model.Resource{
		{SchoolID: school.ID, Name: "Zebra Lab", Type: model.ResourceTypeEquipment, Capacity: 10, IsActive: true},
		{SchoolID: school.ID, Name: "Art Studio", Type: model.ResourceTypePhysicalRoom, Capacity: 20, IsActive: true},
		{SchoolID: school.ID, Name: "Old Gym", Type: model.ResourceTypeSportsFacility, Capacity: 50, IsActive: false},
	}
	for i := range seed {
		require.NoError(t, s.CreateResource(ctx, &seed[i]))
	}

	all, err := s.ListResources(ctx, school.ID, booking.ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Art Studio", all[0].Name)
	assert.Equal(t, "Old Gym", all[1].Name)
	assert.Equal(t, "Zebra Lab", all[2].Name)

	active, err := s.ListResources(ctx, school.ID, booking.ResourceFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	big, err := s.ListResources(ctx, school.ID, booking.ResourceFilter{MinCapacity: 15})
	require.NoError(t, err)
	require.Len(t, big, 2)

	byName, err := s.ListResources(ctx, school.ID, booking.ResourceFilter{NameQuery: "Studio"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Art Studio", byName[0].Name)

	rooms, err := s.ListResources(ctx, school.ID, booking.ResourceFilter{Type: model.ResourceTypePhysicalRoom})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	north := seedSchool(t, s, "Northside", "tok-north")
	south := seedSchool(t, s, "Southside", "tok-south")

	r := &model.Resource{SchoolID: north.ID, Name: "Lab", Type: model.ResourceTypeEquipment, IsActive: true}
	require.NoError(t, s.CreateResource(ctx, r))

	_, err := s.ResourceByID(ctx, south.ID, r.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	rows, err := s.ListResources(ctx, south.ID, booking.ResourceFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	got, err := s.ResourceByID(ctx, north.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lab", got.Name)
}

func TestSchoolByToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-auth")

	got, err := s.SchoolByToken(ctx, "tok-auth")
	require.NoError(t, err)
	assert.Equal(t, school.ID, got.ID)

	_, err = s.SchoolByToken(ctx, "tok-wrong")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteResourceBlockedByFutureBookings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-delete-blocked")

	r := &model.Resource{SchoolID: school.ID, Name: "Lab", Type: model.ResourceTypeEquipment, IsActive: true}
	require.NoError(t, s.CreateResource(ctx, r))

	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateBooking(ctx, &model.ResourceBooking{
		SchoolID:      school.ID,
		ResourceID:    r.ID,
		StartDatetime: now.Add(24 * time.Hour),
		EndDatetime:   now.Add(25 * time.Hour),
		Status:        model.BookingConfirmed,
	}))

	err := s.DeleteResource(ctx, school.ID, r.ID, now)
	var inUse *booking.ResourceInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, r.ID, inUse.ResourceID)
	assert.Equal(t, int64(1), inUse.FutureBookings)

	_, err = s.ResourceByID(ctx, school.ID, r.ID)
	assert.NoError(t, err, "blocked delete must leave the resource intact")
}

func TestDeleteResourcePurgesHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-delete-ok")

	r := &model.Resource{SchoolID: school.ID, Name: "Lab", Type: model.ResourceTypeEquipment, IsActive: true}
	require.NoError(t, s.CreateResource(ctx, r))

	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	// A past confirmed booking and a future cancelled one must not block.
	require.NoError(t, s.CreateBooking(ctx, &model.ResourceBooking{
		SchoolID: school.ID, ResourceID: r.ID,
		StartDatetime: now.Add(-48 * time.Hour), EndDatetime: now.Add(-47 * time.Hour),
		Status: model.BookingConfirmed,
	}))
	require.NoError(t, s.CreateBooking(ctx, &model.ResourceBooking{
		SchoolID: school.ID, ResourceID: r.ID,
		StartDatetime: now.Add(24 * time.Hour), EndDatetime: now.Add(25 * time.Hour),
		Status: model.BookingCancelled,
	}))

	require.NoError(t, s.DeleteResource(ctx, school.ID, r.ID, now))

	_, err := s.ResourceByID(ctx, school.ID, r.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	s.DB().Model(&model.ResourceBooking{}).Where("resource_id = ?", r.ID).Count(&count)
	assert.Equal(t, int64(0), count, "delete removes the booking history too")
}

func TestCompleteElapsed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	school := seedSchool(t, s, "Northside", "tok-sweep")

	r := &model.Resource{SchoolID: school.ID, Name: "Lab", Type: model.ResourceTypeEquipment, IsActive: true}
	require.NoError(t, s.CreateResource(ctx, r))

	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	seed := []model.ResourceBooking{
		// Finished yesterday: should flip to completed.
		{SchoolID: school.ID, ResourceID: r.ID, StartDatetime: now.Add(-25 * time.Hour), EndDatetime: now.Add(-24 * time.Hour), Status: model.BookingConfirmed},
		// Still running: untouched.
		{SchoolID: school.ID, ResourceID: r.ID, StartDatetime: now.Add(-time.Hour), EndDatetime: now.Add(time.Hour), Status: model.BookingConfirmed},
		// Elapsed but cancelled: untouched.
		{SchoolID: school.ID, ResourceID: r.ID, StartDatetime: now.Add(-25 * time.Hour), EndDatetime: now.Add(-24 * time.Hour), Status: model.BookingCancelled},
	}
	for i := range seed {
		require.NoError(t, s.CreateBooking(ctx, &seed[i]))
	}

	n, err := s.CompleteElapsed(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.BookingByID(ctx, school.ID, seed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, got.Status)

	got, err = s.BookingByID(ctx, school.ID, seed[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)

	n, err = s.CompleteElapsed(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "sweeping again finds nothing")
}

func TestCreateResourceSetValidatesOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	north := seedSchool(t, s, "Northside", "tok-set-north")
	south := seedSchool(t, s, "Southside", "tok-set-south")

	mine := &model.Resource{SchoolID: north.ID, Name: "Room A", Type: model.ResourceTypePhysicalRoom, IsActive: true}
	require.NoError(t, s.CreateResource(ctx, mine))
	theirs := &model.Resource{SchoolID: south.ID, Name: "Room B", Type: model.ResourceTypePhysicalRoom, IsActive: true}
	require.NoError(t, s.CreateResource(ctx, theirs))

	err := s.CreateResourceSet(ctx, &model.ResourceSet{SchoolID: north.ID, Name: "Science wing"},
		[]int64{mine.ID, theirs.ID})
	var validation *booking.ValidationError
	require.ErrorAs(t, err, &validation)

	sets, err := s.ListResourceSets(ctx, north.ID)
	require.NoError(t, err)
	assert.Empty(t, sets, "failed set creation must not leave a partial row")

	require.NoError(t, s.CreateResourceSet(ctx, &model.ResourceSet{SchoolID: north.ID, Name: "Science wing"},
		[]int64{mine.ID}))
	sets, err = s.ListResourceSets(ctx, north.ID)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Members, 1)
	assert.Equal(t, mine.ID, sets[0].Members[0].ResourceID)
}

func TestDeleteResourceSetIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	north := seedSchool(t, s, "Northside", "tok-setdel-north")
	south := seedSchool(t, s, "Southside", "tok-setdel-south")

	room := &model.Resource{SchoolID: south.ID, Name: "Room B", Type: model.ResourceTypePhysicalRoom, IsActive: true}
	require.NoError(t, s.CreateResource(ctx, room))
	set := &model.ResourceSet{SchoolID: south.ID, Name: "South wing"}
	require.NoError(t, s.CreateResourceSet(ctx, set, []int64{room.ID}))

	err := s.DeleteResourceSet(ctx, north.ID, set.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	sets, err := s.ListResourceSets(ctx, south.ID)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Members, 1, "members must survive a cross-tenant delete attempt")

	require.NoError(t, s.DeleteResourceSet(ctx, south.ID, set.ID))
	sets, err = s.ListResourceSets(ctx, south.ID)
	require.NoError(t, err)
	assert.Empty(t, sets)

	var members int64
	s.DB().Model(&model.ResourceSetMember{}).Count(&members)
	assert.Zero(t, members, "owner delete removes the member rows too")
}
