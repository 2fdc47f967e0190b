package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-booking-backend/internal/model"
	"campus-booking-backend/internal/mw"
)

type createResourceSetRequest struct {
	Name        string  `json:"name" binding:"required"`
	ResourceIDs []int64 `json:"resource_ids" binding:"required"`
}

// CreateResourceSet handles POST /api/resource-sets.
func (h *Handler) CreateResourceSet(c *gin.Context) {
	var req createResourceSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	set := model.ResourceSet{SchoolID: school.ID, Name: req.Name}
	if err := h.store.CreateResourceSet(c.Request.Context(), &set, req.ResourceIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

// ListResourceSets handles GET /api/resource-sets.
func (h *Handler) ListResourceSets(c *gin.Context) {
	school := mw.CurrentSchool(c)
	rows, err := h.store.ListResourceSets(c.Request.Context(), school.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// DeleteResourceSet handles DELETE /api/resource-sets/:id.
func (h *Handler) DeleteResourceSet(c *gin.Context) {
	school := mw.CurrentSchool(c)
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	if err := h.store.DeleteResourceSet(c.Request.Context(), school.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
