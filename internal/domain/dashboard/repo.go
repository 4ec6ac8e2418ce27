package dashboard

import (
	"context"
	"time"
)

// Repository reads aggregate statistics off the patient store.
type Repository interface {
	Stats(ctx context.Context, today time.Time) (*Stats, error)
	Recent(ctx context.Context, limit int) ([]RecentPatient, error)
}
