package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-booking-backend/internal/booking"
	"campus-booking-backend/internal/model"
	"campus-booking-backend/internal/mw"
)

type createResourceRequest struct {
	Name            string             `json:"name" binding:"required"`
	Type            model.ResourceType `json:"resource_type" binding:"required"`
	Capacity        int                `json:"capacity"`
	IsActive        *bool              `json:"is_active"`
	Location        string             `json:"location"`
	MeetingURL      string             `json:"meeting_url"`
	MeetingPlatform string             `json:"meeting_platform"`
	Features        model.FeatureMap   `json:"features"`

	MinBookingDuration int `json:"min_booking_duration"`
	MaxBookingDuration int `json:"max_booking_duration"`
	BufferTimeBefore   int `json:"buffer_time_before"`
	BufferTimeAfter    int `json:"buffer_time_after"`
	AdvanceBookingDays int `json:"advance_booking_days"`

	CostPerHour  *float64 `json:"cost_per_hour"`
	CostCurrency string   `json:"cost_currency"`
}

// CreateResource handles POST /api/resources.
func (h *Handler) CreateResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	res := model.Resource{
		SchoolID:           school.ID,
		Name:               req.Name,
		Type:               req.Type,
		Capacity:           req.Capacity,
		IsActive:           true,
		Location:           optionalString(req.Location),
		MeetingURL:         optionalString(req.MeetingURL),
		MeetingPlatform:    optionalString(req.MeetingPlatform),
		Features:           req.Features,
		MinBookingDuration: req.MinBookingDuration,
		MaxBookingDuration: req.MaxBookingDuration,
		BufferTimeBefore:   req.BufferTimeBefore,
		BufferTimeAfter:    req.BufferTimeAfter,
		AdvanceBookingDays: req.AdvanceBookingDays,
		CostPerHour:        req.CostPerHour,
		CostCurrency:       optionalString(req.CostCurrency),
	}
	if req.IsActive != nil {
		res.IsActive = *req.IsActive
	}

	if err := h.store.CreateResource(c.Request.Context(), &res); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListResources handles GET /api/resources.
func (h *Handler) ListResources(c *gin.Context) {
	school := mw.CurrentSchool(c)

	filter := booking.ResourceFilter{
		Type:       model.ResourceType(c.Query("type")),
		ActiveOnly: c.Query("active") == "true",
		NameQuery:  c.Query("q"),
	}
	if v := c.Query("min_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_capacity"})
			return
		}
		filter.MinCapacity = n
	}

	rows, err := h.store.ListResources(c.Request.Context(), school.ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetResource handles GET /api/resources/:id.
func (h *Handler) GetResource(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	res, err := h.store.ResourceByID(c.Request.Context(), school.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type updateResourceRequest struct {
	Name            *string             `json:"name"`
	Type            *model.ResourceType `json:"resource_type"`
	Capacity        *int                `json:"capacity"`
	IsActive        *bool               `json:"is_active"`
	Location        *string             `json:"location"`
	MeetingURL      *string             `json:"meeting_url"`
	MeetingPlatform *string             `json:"meeting_platform"`
	Features        *model.FeatureMap   `json:"features"`

	MinBookingDuration *int `json:"min_booking_duration"`
	MaxBookingDuration *int `json:"max_booking_duration"`
	BufferTimeBefore   *int `json:"buffer_time_before"`
	BufferTimeAfter    *int `json:"buffer_time_after"`
	AdvanceBookingDays *int `json:"advance_booking_days"`

	CostPerHour  *float64 `json:"cost_per_hour"`
	CostCurrency *string  `json:"cost_currency"`
}

// UpdateResource handles PATCH /api/resources/:id. Optional string fields
// sent as "" are cleared to NULL rather than stored empty, so "never set"
// stays distinguishable from "cleared".
func (h *Handler) UpdateResource(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req updateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.store.ResourceByID(c.Request.Context(), school.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		res.Name = *req.Name
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource_type"})
			return
		}
		res.Type = *req.Type
	}
	if req.Capacity != nil {
		res.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		res.IsActive = *req.IsActive
	}
	if req.Location != nil {
		res.Location = optionalString(*req.Location)
	}
	if req.MeetingURL != nil {
		res.MeetingURL = optionalString(*req.MeetingURL)
	}
	if req.MeetingPlatform != nil {
		res.MeetingPlatform = optionalString(*req.MeetingPlatform)
	}
	if req.Features != nil {
		res.Features = *req.Features
	}
	if req.MinBookingDuration != nil {
		res.MinBookingDuration = *req.MinBookingDuration
	}
	if req.MaxBookingDuration != nil {
		res.MaxBookingDuration = *req.MaxBookingDuration
	}
	if req.BufferTimeBefore != nil {
		res.BufferTimeBefore = *req.BufferTimeBefore
	}
	if req.BufferTimeAfter != nil {
		res.BufferTimeAfter = *req.BufferTimeAfter
	}
	if req.AdvanceBookingDays != nil {
		res.AdvanceBookingDays = *req.AdvanceBookingDays
	}
	if req.CostPerHour != nil {
		res.CostPerHour = req.CostPerHour
	}
	if req.CostCurrency != nil {
		res.CostCurrency = optionalString(*req.CostCurrency)
	}

	if err := h.store.UpdateResource(c.Request.Context(), res); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteResource handles DELETE /api/resources/:id.
func (h *Handler) DeleteResource(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	if err := h.store.DeleteResource(c.Request.Context(), school.ID, id, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckResourceAvailability handles GET /api/resources/:id/availability.
func (h *Handler) CheckResourceAvailability(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	start, end, ok := intervalQuery(c)
	if !ok {
		return
	}

	var excludeID int64
	if v := c.Query("exclude_booking_id"); v != "" {
		excludeID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exclude_booking_id"})
			return
		}
	}

	avail, err := h.orch.Checker().CheckAvailability(c.Request.Context(), school.ID, id, start, end, excludeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, err
	}
	return id, nil
}

func intervalQuery(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid 'start' timestamp. Use RFC3339."})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid 'end' timestamp. Use RFC3339."})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
