package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const recentLimit = 5

// Service assembles the clinic overview.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "dashboard").Logger(),
		now:  time.Now,
	}
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	stats, err := s.repo.Stats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	recent, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent registrations: %w", err)
	}

	return &Overview{Stats: *stats, Recent: recent}, nil
}
