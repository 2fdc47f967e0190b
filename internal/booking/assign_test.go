package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campus-booking-backend/internal/model"
)

// fakeDirectory is an in-memory DirectoryStore for assignment tests.
type fakeDirectory struct {
	resources []model.Resource
	bookings  []model.ResourceBooking
}

func (f *fakeDirectory) ResourceByID(_ context.Context, schoolID, id int64) (*model.Resource, error) {
	for _, r := range f.resources {
		if r.ID == id && r.SchoolID == schoolID {
			r := r
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectory) OverlappingBookings(_ context.Context, schoolID, resourceID int64, startBefore, endAfter time.Time, excludeID int64) ([]model.ResourceBooking, error) {
	var out []model.ResourceBooking
	for _, b := range f.bookings {
		if b.SchoolID != schoolID || b.ResourceID != resourceID {
			continue
		}
		if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
			continue
		}
		if excludeID > 0 && b.ID == excludeID {
			continue
		}
		if b.StartDatetime.Before(startBefore) && b.EndDatetime.After(endAfter) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeDirectory) ListResources(_ context.Context, schoolID int64, filter ResourceFilter) ([]model.Resource, error) {
	var out []model.Resource
	for _, r := range f.resources {
		if r.SchoolID != schoolID {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		if filter.MinCapacity > 0 && r.Capacity < filter.MinCapacity {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDirectory) ResourcesByIDs(_ context.Context, schoolID int64, ids []int64) ([]model.Resource, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.Resource
	for _, r := range f.resources {
		if r.SchoolID == schoolID && wanted[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func room(id int64, name string, capacity int) model.Resource {
	return model.Resource{
		ID: id, SchoolID: 1, Name: name,
		Type: model.ResourceTypePhysicalRoom, Capacity: capacity, IsActive: true,
		Features: model.FeatureMap{},
	}
}

func sessionAt(hour int) (time.Time, time.Time) {
	start := time.Date(2024, 3, 4, hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

func TestRequiredTypes(t *testing.T) {
	offline := SessionRequirements{Online: false, Category: "music"}
	assert.Equal(t,
		[]model.ResourceType{model.ResourceTypePhysicalRoom, model.ResourceTypeInstrument},
		offline.RequiredTypes())

	online := SessionRequirements{Online: true}
	assert.Equal(t, []model.ResourceType{model.ResourceTypeOnlineMeeting}, online.RequiredTypes())

	unknownCategory := SessionRequirements{Online: false, Category: "philosophy"}
	assert.Equal(t, []model.ResourceType{model.ResourceTypePhysicalRoom}, unknownCategory.RequiredTypes())
}

func TestSmartAssignPrefersCallerOrder(t *testing.T) {
	dir := &fakeDirectory{
		resources: []model.Resource{room(1, "Room A", 20), room(2, "Room B", 20), room(3, "Room C", 20)},
	}
	assigner := NewAssigner(dir)

	start, end := sessionAt(10)
	assigned, err := assigner.SmartAssign(context.Background(), 1, SessionRequirements{
		Start: start, End: end,
		PreferredResourceIDs: []int64{3, 1},
	})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, int64(3), assigned[0].ID, "first preferred available resource wins")
}

func TestSmartAssignFallsBackToNameOrder(t *testing.T) {
	dir := &fakeDirectory{
		resources: []model.Resource{room(2, "Room B", 20), room(1, "Room A", 20)},
	}
	assigner := NewAssigner(dir)

	start, end := sessionAt(10)
	assigned, err := assigner.SmartAssign(context.Background(), 1, SessionRequirements{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Room A", assigned[0].Name, "first-fit follows directory name order")
}

func TestSmartAssignSkipsBusyPreferred(t *testing.T) {
	start, end := sessionAt(10)
	dir := &fakeDirectory{
		resources: []model.Resource{room(1, "Room A", 20), room(2, "Room B", 20)},
		bookings: []model.ResourceBooking{{
			ID: 1, SchoolID: 1, ResourceID: 2,
			StartDatetime: start, EndDatetime: end,
			Status: model.BookingConfirmed,
		}},
	}
	assigner := NewAssigner(dir)

	assigned, err := assigner.SmartAssign(context.Background(), 1, SessionRequirements{
		Start: start, End: end,
		PreferredResourceIDs: []int64{2},
	})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, int64(1), assigned[0].ID, "busy preferred resource falls through to directory")
}

func TestSmartAssignFiltersByCapacityAndFeatures(t *testing.T) {
	big := room(1, "Auditorium", 100)
	big.Features = model.FeatureMap{"projector": model.BoolFeature(true)}
	small := room(2, "Booth", 2)
	small.Features = model.FeatureMap{"projector": model.BoolFeature(true)}
	bare := room(3, "Annex", 100)

	dir := &fakeDirectory{resources: []model.Resource{bare, big, small}}
	assigner := NewAssigner(dir)

	start, end := sessionAt(9)
	assigned, err := assigner.SmartAssign(context.Background(), 1, SessionRequirements{
		Start: start, End: end,
		Capacity:         30,
		RequiredFeatures: model.FeatureMap{"projector": model.BoolFeature(true)},
	})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Auditorium", assigned[0].Name)
}

func TestSmartAssignOmitsUncoverableTypes(t *testing.T) {
	// music needs an instrument; none exists, so the type is silently dropped.
	dir := &fakeDirectory{resources: []model.Resource{room(1, "Room A", 20)}}
	assigner := NewAssigner(dir)

	start, end := sessionAt(9)
	assigned, err := assigner.SmartAssign(context.Background(), 1, SessionRequirements{
		Start: start, End: end,
		Category: "music",
	})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, model.ResourceTypePhysicalRoom, assigned[0].Type)
}

func TestSmartAssignRejectsInvertedInterval(t *testing.T) {
	assigner := NewAssigner(&fakeDirectory{})
	start, end := sessionAt(9)
	_, err := assigner.SmartAssign(context.Background(), 1, SessionRequirements{Start: end, End: start})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}
