package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-booking-backend/internal/model"
	"campus-booking-backend/internal/mw"
	"campus-booking-backend/internal/staffing"
)

type createStaffRequest struct {
	Name         string                   `json:"name" binding:"required"`
	Email        string                   `json:"email"`
	Role         string                   `json:"role"`
	Availability model.WeeklyAvailability `json:"availability"`

	MinWeeklyHours *int `json:"min_weekly_hours"`
	MaxWeeklyHours *int `json:"max_weekly_hours"`
}

// CreateStaff handles POST /api/staff.
func (h *Handler) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	st := model.Staff{
		SchoolID:       school.ID,
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		IsActive:       true,
		Availability:   req.Availability,
		MinWeeklyHours: req.MinWeeklyHours,
		MaxWeeklyHours: req.MaxWeeklyHours,
	}
	if err := h.store.CreateStaff(c.Request.Context(), &st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// ListStaff handles GET /api/staff.
func (h *Handler) ListStaff(c *gin.Context) {
	school := mw.CurrentSchool(c)
	rows, err := h.store.ListStaff(c.Request.Context(), school.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type updateStaffRequest struct {
	Name         *string                   `json:"name"`
	Email        *string                   `json:"email"`
	Role         *string                   `json:"role"`
	IsActive     *bool                     `json:"is_active"`
	Availability *model.WeeklyAvailability `json:"availability"`

	MinWeeklyHours *int `json:"min_weekly_hours"`
	MaxWeeklyHours *int `json:"max_weekly_hours"`
}

// UpdateStaff handles PATCH /api/staff/:id.
func (h *Handler) UpdateStaff(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.store.StaffByID(c.Request.Context(), school.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Email != nil {
		st.Email = *req.Email
	}
	if req.Role != nil {
		st.Role = *req.Role
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}
	if req.Availability != nil {
		st.Availability = *req.Availability
	}
	if req.MinWeeklyHours != nil {
		st.MinWeeklyHours = req.MinWeeklyHours
	}
	if req.MaxWeeklyHours != nil {
		st.MaxWeeklyHours = req.MaxWeeklyHours
	}

	if err := h.store.UpdateStaff(c.Request.Context(), st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DeleteStaff handles DELETE /api/staff/:id.
func (h *Handler) DeleteStaff(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	if err := h.store.DeleteStaff(c.Request.Context(), school.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AvailableStaff handles GET /api/staff/available: who overlaps the requested
// slot at all. Confirming one person fully covers a slot is a separate check.
func (h *Handler) AvailableStaff(c *gin.Context) {
	school := mw.CurrentSchool(c)

	day := c.Query("day")
	start := c.Query("start")
	end := c.Query("end")
	if day == "" || start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day, start and end are required"})
		return
	}

	rows, err := h.matcher.AvailableStaff(c.Request.Context(), school.ID, day, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// StaffAvailabilitySummary handles GET /api/staff/:id/availability-summary.
func (h *Handler) StaffAvailabilitySummary(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	st, err := h.store.StaffByID(c.Request.Context(), school.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := staffing.WeeklySummary(*st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":          summary,
		"min_weekly_hours": st.MinWeeklyHours,
		"max_weekly_hours": st.MaxWeeklyHours,
	})
}
