package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockRepo struct {
	stats     *Stats
	recent    []RecentPatient
	statsErr  error
	recentErr error

	gotToday time.Time
	gotLimit int
}

func (m *mockRepo) Stats(_ context.Context, today time.Time) (*Stats, error) {
	m.gotToday = today
	return m.stats, m.statsErr
}

func (m *mockRepo) Recent(_ context.Context, limit int) ([]RecentPatient, error) {
	m.gotLimit = limit
	return m.recent, m.recentErr
}

func TestOverview(t *testing.T) {
	repo := &mockRepo{
		stats: &Stats{TotalPatients: 4, Pending: 2, Done: 1, Archived: 1, Male: 2, Female: 2, AverageAge: 41.5},
		recent: []RecentPatient{
			{ID: 4, FullName: "Bo Chen", Status: "Pending"},
			{ID: 3, FullName: "Ana Cruz", Status: "Done"},
		},
	}
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }

	o, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.Stats.TotalPatients != 4 || o.Stats.AverageAge != 41.5 {
		t.Errorf("unexpected stats: %+v", o.Stats)
	}
	if len(o.Recent) != 2 || o.Recent[0].FullName != "Bo Chen" {
		t.Errorf("unexpected recent list: %+v", o.Recent)
	}
	if repo.gotLimit != recentLimit {
		t.Errorf("expected recent limit %d, got %d", recentLimit, repo.gotLimit)
	}
	if !repo.gotToday.Equal(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("expected today's date to be passed through, got %v", repo.gotToday)
	}
}

func TestOverview_StatsError(t *testing.T) {
	repo := &mockRepo{statsErr: errors.New("boom")}
	svc := NewService(repo, zerolog.Nop())

	if _, err := svc.Overview(context.Background()); err == nil {
		t.Error("expected error to propagate")
	}
}
