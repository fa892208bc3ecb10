package worker

import (
	"context"
	"log"
	"time"

	"github.com/smartway/smartway-backend/internal/repository"
)

// Sweeper lazily expires listings whose departure time has passed. The
// read paths already filter on departure_time, so the sweep only keeps
// stored statuses honest; nothing user-facing waits on it.
type Sweeper struct {
	tripRepo         repository.TripRepository
	announcementRepo repository.AnnouncementRepository
	interval         time.Duration
}

func NewSweeper(tripRepo repository.TripRepository, announcementRepo repository.AnnouncementRepository, interval time.Duration) *Sweeper {
	return &Sweeper{
		tripRepo:         tripRepo,
		announcementRepo: announcementRepo,
		interval:         interval,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()

	if n, err := s.tripRepo.ExpireStale(ctx, now); err != nil {
		log.Printf("sweeper: trip expiry failed: %v", err)
	} else if n > 0 {
		log.Printf("sweeper: expired %d trips", n)
	}

	if n, err := s.announcementRepo.ExpireStale(ctx, now); err != nil {
		log.Printf("sweeper: announcement expiry failed: %v", err)
	} else if n > 0 {
		log.Printf("sweeper: expired %d announcements", n)
	}
}
