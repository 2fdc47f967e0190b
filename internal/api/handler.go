package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"campus-booking-backend/config"
	"campus-booking-backend/internal/booking"
	"campus-booking-backend/internal/mailer"
	"campus-booking-backend/internal/notification"
	"campus-booking-backend/internal/staffing"
	"campus-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	orch     *booking.Orchestrator
	assigner *booking.Assigner
	matcher  *staffing.Matcher
	mailer   mailer.Service
	pool     *notification.WorkerPool
	webpush  *webpush.Options
	cfg      *config.Config
}

// NewHandler wires the core services behind the HTTP surface.
func NewHandler(s store.Store, m mailer.Service, pool *notification.WorkerPool, webpushOptions *webpush.Options, cfg *config.Config) *Handler {
	return &Handler{
		store:    s,
		orch:     booking.NewOrchestrator(s),
		assigner: booking.NewAssigner(s),
		matcher:  staffing.NewMatcher(s),
		mailer:   m,
		pool:     pool,
		webpush:  webpushOptions,
		cfg:      cfg,
	}
}

func (h *Handler) dispatch(ev notification.Event) {
	if h.pool != nil {
		h.pool.Dispatch(ev)
	}
}
