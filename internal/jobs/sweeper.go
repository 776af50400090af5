// Package jobs contains background loops run alongside the server.
package jobs

import (
	"context"
	"log"
	"time"

	"discloser/internal/db"
)

// Sweeper periodically purges share links whose expiry passed longer ago than
// the retention window. Expired links stay resolvable as "expired" until the
// sweeper removes them, after which recipients see not-found.
type Sweeper struct {
	db        *db.DB
	interval  time.Duration
	retention time.Duration
}

// NewSweeper creates a new sweeper.
func NewSweeper(database *db.DB, interval, retention time.Duration) *Sweeper {
	return &Sweeper{
		db:        database,
		interval:  interval,
		retention: retention,
	}
}

// Start begins the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Sweeper started (interval: %v, retention: %v)", s.interval, s.retention)

	// Run immediately on start
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.db.DeleteExpiredShareLinks(ctx, cutoff)
	if err != nil {
		log.Printf("Sweeper: failed to purge expired links: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Sweeper: purged %d expired links", deleted)
	}
}
