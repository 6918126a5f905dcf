// Package scheduler runs the listing-expiry sweep that the hosted variant
// of this system ran as a daily cloud function.
package scheduler

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/cache"
	"github.com/tharun06x/team-chanchal/internal/repository"
)

// ExpirySweeper periodically flips listings whose retention window has
// passed from active to expired.
type ExpirySweeper struct {
	repo     repository.ListingRepository
	cache    *cache.Cache
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewExpirySweeper(repo repository.ListingRepository, c *cache.Cache, interval time.Duration) *ExpirySweeper {
	if interval == 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{
		repo:     repo,
		cache:    c,
		interval: interval,
	}
}

func (s *ExpirySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	log.WithField("interval", s.interval.String()).Info("listing expiry sweeper started")

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop halts the sweep loop and waits for it to exit. A stopped sweeper
// can be started again.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	log.Info("listing expiry sweeper stopped")
}

func (s *ExpirySweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs one expiry pass.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	ids, err := s.repo.ExpireDue(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("listing expiry sweep failed")
		return
	}
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		if err := s.cache.InvalidateListing(ctx, id); err != nil {
			log.WithError(err).WithField("listing_id", id).Warn("failed to invalidate expired listing")
		}
	}
	log.WithField("count", len(ids)).Info("expired listings")
}
