package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-booking-backend/internal/booking"
	"campus-booking-backend/internal/model"
	"campus-booking-backend/internal/mw"
	"campus-booking-backend/internal/notification"
	"campus-booking-backend/internal/store"
)

type bookSessionRequest struct {
	SessionID   *int64    `json:"session_id"`
	ResourceIDs []int64   `json:"resource_ids" binding:"required"`
	Start       time.Time `json:"start_datetime" binding:"required"`
	End         time.Time `json:"end_datetime" binding:"required"`
	Notes       string    `json:"notes"`
}

// BookSession handles POST /api/bookings/session: reserve several resources
// for one session, all-or-nothing.
func (h *Handler) BookSession(c *gin.Context) {
	var req bookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	created, err := h.orch.BookSession(c.Request.Context(), school.ID, req.SessionID, req.ResourceIDs, req.Start, req.End, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, b := range created {
		h.dispatch(notification.Event{Kind: notification.EventBookingCreated, ResourceID: b.ResourceID, BookingID: b.ID})
	}
	c.JSON(http.StatusCreated, created)
}

type bookRecurringRequest struct {
	ResourceID int64                     `json:"resource_id" binding:"required"`
	Pattern    booking.RecurrencePattern `json:"pattern" binding:"required"`
	SessionIDs []int64                   `json:"session_ids"`
}

// BookRecurring handles POST /api/bookings/recurring. Conflicting dates are
// skipped and reported in the result, never an error.
func (h *Handler) BookRecurring(c *gin.Context) {
	var req bookRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	result, err := h.orch.BookRecurring(c.Request.Context(), school.ID, req.ResourceID, req.Pattern, req.SessionIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, b := range result.Created {
		h.dispatch(notification.Event{Kind: notification.EventBookingCreated, ResourceID: b.ResourceID, BookingID: b.ID})
	}
	c.JSON(http.StatusCreated, result)
}

type cancelGroupRequest struct {
	Reason string `json:"reason"`
}

// CancelRecurringGroup handles DELETE /api/bookings/recurring/:group_id.
func (h *Handler) CancelRecurringGroup(c *gin.Context) {
	var req cancelGroupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	school := mw.CurrentSchool(c)
	groupID := c.Param("group_id")
	cancelled, err := h.orch.CancelRecurringGroup(c.Request.Context(), school.ID, groupID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, b := range cancelled {
		h.dispatch(notification.Event{Kind: notification.EventBookingCancelled, ResourceID: b.ResourceID, BookingID: b.ID})
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": len(cancelled)})
}

type transferRequest struct {
	NewResourceID int64  `json:"new_resource_id" binding:"required"`
	Reason        string `json:"reason"`
}

// TransferBooking handles POST /api/bookings/:id/transfer.
func (h *Handler) TransferBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	oldResource := int64(0)
	if b, err := h.store.BookingByID(c.Request.Context(), school.ID, id); err == nil {
		oldResource = b.ResourceID
	}

	b, err := h.orch.Transfer(c.Request.Context(), school.ID, id, req.NewResourceID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	if oldResource > 0 {
		h.dispatch(notification.Event{Kind: notification.EventBookingCancelled, ResourceID: oldResource, BookingID: b.ID})
	}
	h.dispatch(notification.Event{Kind: notification.EventBookingCreated, ResourceID: b.ResourceID, BookingID: b.ID})
	c.JSON(http.StatusOK, b)
}

// SmartAssignment handles POST /api/bookings/smart-assignment: pick the best
// available resource per required type without creating bookings.
func (h *Handler) SmartAssignment(c *gin.Context) {
	var req booking.SessionRequirements
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	assigned, err := h.assigner.SmartAssign(c.Request.Context(), school.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if assigned == nil {
		assigned = []model.Resource{}
	}
	c.JSON(http.StatusOK, assigned)
}

// ListBookings handles GET /api/bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	school := mw.CurrentSchool(c)

	filter := store.BookingFilter{
		Status:  model.BookingStatus(c.Query("status")),
		GroupID: c.Query("recurrence_group_id"),
	}
	if v := c.Query("resource_id"); v != "" {
		id, err := pathInt64(c, v, "resource_id")
		if err != nil {
			return
		}
		filter.ResourceID = id
	}
	if v := c.Query("session_id"); v != "" {
		id, err := pathInt64(c, v, "session_id")
		if err != nil {
			return
		}
		filter.SessionID = id
	}

	rows, err := h.store.ListBookings(c.Request.Context(), school.ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func pathInt64(c *gin.Context, v, name string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
	}
	return id, err
}
