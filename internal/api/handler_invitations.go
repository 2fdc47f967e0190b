package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-booking-backend/internal/mailer"
	"campus-booking-backend/internal/model"
	"campus-booking-backend/internal/mw"
)

type createInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Role  string `json:"role" binding:"required,oneof=staff student parent"`
}

// CreateInvitation handles POST /api/invitations: record the invitation and
// email a portal link. A failed send rolls the record back so the invitation
// never appears sent when it was not.
func (h *Handler) CreateInvitation(c *gin.Context) {
	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := mw.CurrentSchool(c)
	inv := model.Invitation{
		SchoolID: school.ID,
		Email:    req.Email,
		Role:     req.Role,
		Token:    uuid.NewString(),
		SentAt:   time.Now(),
	}
	if err := h.store.CreateInvitation(c.Request.Context(), &inv); err != nil {
		respondError(c, err)
		return
	}

	link := fmt.Sprintf("%s/invite/%s", h.cfg.Mailer.PortalBaseURL, inv.Token)
	msg := mailer.Message{
		To:      req.Email,
		ToName:  req.Name,
		Subject: fmt.Sprintf("You're invited to the %s portal", school.Name),
		Text:    fmt.Sprintf("You have been invited to join %s as %s.\n\nAccept here: %s", school.Name, req.Role, link),
		HTML: fmt.Sprintf(
			"<p>You have been invited to join <strong>%s</strong> as %s.</p><p><a href=%q>Accept invitation</a></p>",
			school.Name, req.Role, link),
	}

	if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
		if delErr := h.store.DeleteInvitation(c.Request.Context(), inv.ID); delErr != nil {
			log.Printf("Failed to roll back invitation %d after send failure: %v", inv.ID, delErr)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send invitation email"})
		return
	}

	c.JSON(http.StatusCreated, inv)
}
