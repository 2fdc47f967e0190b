package booking

import (
	"context"
	"strings"
	"time"

	"campus-booking-backend/internal/model"
)

// ResourceFilter narrows a directory listing. Zero values mean "no filter";
// results are ordered by name.
type ResourceFilter struct {
	Type        model.ResourceType
	ActiveOnly  bool
	MinCapacity int
	NameQuery   string
}

// DirectoryStore is the resource-directory surface smart assignment needs.
type DirectoryStore interface {
	ConflictStore
	ListResources(ctx context.Context, schoolID int64, f ResourceFilter) ([]model.Resource, error)
	ResourcesByIDs(ctx context.Context, schoolID int64, ids []int64) ([]model.Resource, error)
}

// SessionRequirements describes the session a set of resources is needed for.
type SessionRequirements struct {
	Start    time.Time `json:"start_datetime"`
	End      time.Time `json:"end_datetime"`
	Online   bool      `json:"online"`
	Category string    `json:"category"`
	Capacity int       `json:"capacity"`

	// PreferredResourceIDs are tried first, in the caller's order.
	PreferredResourceIDs []int64          `json:"preferred_resource_ids"`
	RequiredFeatures     model.FeatureMap `json:"required_features"`
}

// categoryTypes maps a course category to the extra resource type it needs.
var categoryTypes = map[string]model.ResourceType{
	"music":      model.ResourceTypeInstrument,
	"cooking":    model.ResourceTypeEquipment,
	"science":    model.ResourceTypeEquipment,
	"fitness":    model.ResourceTypeSportsFacility,
	"sports":     model.ResourceTypeSportsFacility,
	"driving":    model.ResourceTypeVehicle,
	"technology": model.ResourceTypeSoftwareLicense,
}

// RequiredTypes derives the resource types a session needs from its shape.
func (r SessionRequirements) RequiredTypes() []model.ResourceType {
	types := make([]model.ResourceType, 0, 2)
	if r.Online {
		types = append(types, model.ResourceTypeOnlineMeeting)
	} else {
		types = append(types, model.ResourceTypePhysicalRoom)
	}
	if extra, ok := categoryTypes[strings.ToLower(strings.TrimSpace(r.Category))]; ok && extra != types[0] {
		types = append(types, extra)
	}
	return types
}

// Assigner picks resources for a session with a first-fit policy.
type Assigner struct {
	store   DirectoryStore
	checker *Checker
}

// NewAssigner creates a smart-assignment helper.
func NewAssigner(s DirectoryStore) *Assigner {
	return &Assigner{store: s, checker: NewChecker(s)}
}

// SmartAssign picks one available resource per required type. Caller-preferred
// resources win when they match the type and are free; otherwise the first
// available directory match (name order) is taken. Types with no available
// resource are omitted from the result, never an error - callers must check
// coverage themselves.
func (a *Assigner) SmartAssign(ctx context.Context, schoolID int64, req SessionRequirements) ([]model.Resource, error) {
	if !req.Start.Before(req.End) {
		return nil, &ValidationError{Field: "interval", Reason: "start must be before end"}
	}

	preferred, err := a.preferredInOrder(ctx, schoolID, req.PreferredResourceIDs)
	if err != nil {
		return nil, err
	}

	var assigned []model.Resource
	for _, typ := range req.RequiredTypes() {
		res, err := a.assignType(ctx, schoolID, typ, req, preferred)
		if err != nil {
			return nil, err
		}
		if res != nil {
			assigned = append(assigned, *res)
		}
	}
	return assigned, nil
}

func (a *Assigner) assignType(ctx context.Context, schoolID int64, typ model.ResourceType, req SessionRequirements, preferred []model.Resource) (*model.Resource, error) {
	for _, p := range preferred {
		if p.Type != typ || !p.IsActive {
			continue
		}
		free, err := a.isFree(ctx, schoolID, p.ID, req)
		if err != nil {
			return nil, err
		}
		if free {
			p := p
			return &p, nil
		}
	}
	return a.findBestResource(ctx, schoolID, typ, req)
}

// findBestResource is first-fit, not best-fit: the first directory match (name
// order) passing capacity, feature-superset and conflict checks wins.
func (a *Assigner) findBestResource(ctx context.Context, schoolID int64, typ model.ResourceType, req SessionRequirements) (*model.Resource, error) {
	candidates, err := a.store.ListResources(ctx, schoolID, ResourceFilter{
		Type:        typ,
		ActiveOnly:  true,
		MinCapacity: req.Capacity,
	})
	if err != nil {
		return nil, err
	}

	for _, cand := range candidates {
		if !cand.Features.Satisfies(req.RequiredFeatures) {
			continue
		}
		free, err := a.isFree(ctx, schoolID, cand.ID, req)
		if err != nil {
			return nil, err
		}
		if free {
			cand := cand
			return &cand, nil
		}
	}
	return nil, nil
}

func (a *Assigner) isFree(ctx context.Context, schoolID, resourceID int64, req SessionRequirements) (bool, error) {
	avail, err := a.checker.CheckAvailability(ctx, schoolID, resourceID, req.Start, req.End, 0)
	if err != nil {
		return false, err
	}
	return avail.IsAvailable, nil
}

// preferredInOrder loads the preferred resources keeping the caller's order.
func (a *Assigner) preferredInOrder(ctx context.Context, schoolID int64, ids []int64) ([]model.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := a.store.ResourcesByIDs(ctx, schoolID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Resource, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	ordered := make([]model.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}
