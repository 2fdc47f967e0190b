// Package sweeper runs the background job that closes out finished bookings.
package sweeper

import (
	"context"
	"log"
	"time"

	"campus-booking-backend/config"
	"campus-booking-backend/internal/store"
)

// Service periodically transitions confirmed bookings whose end time has
// passed to the completed status.
type Service struct {
	cfg   *config.Config
	store store.Store
}

// NewService creates a sweeper over the given store.
func NewService(cfg *config.Config, s store.Store) *Service {
	return &Service{cfg: cfg, store: s}
}

// Run loops until the context is cancelled. A sweep happens immediately on
// start and then at the configured interval.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sweeper.Enabled {
		log.Println("Booking sweeper is disabled")
		return
	}

	ticker := time.NewTicker(s.cfg.Sweeper.Interval)
	defer ticker.Stop()

	s.SweepOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			log.Println("Booking sweeper shutting down")
			return
		}
	}
}

// SweepOnce completes every elapsed confirmed booking and returns the count.
func (s *Service) SweepOnce(ctx context.Context) int64 {
	n, err := s.store.CompleteElapsed(ctx, time.Now())
	if err != nil {
		log.Printf("Sweep failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Sweep completed %d elapsed booking(s)", n)
	}
	return n
}
