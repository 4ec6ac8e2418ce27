package patient

import "context"

// Repository is the persistent store of patient records. Records are never
// hard-deleted; Archived is the soft-delete state.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	// Update replaces all editable fields and bumps updated_at.
	Update(ctx context.Context, p *Patient) error
	// UpdateStatus writes the status field only. updated_at is left untouched.
	UpdateStatus(ctx context.Context, id int64, status Status) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Patient, int, error)
}
