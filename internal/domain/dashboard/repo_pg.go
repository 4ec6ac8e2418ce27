package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type dashboardRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &dashboardRepoPG{pool: pool}
}

// Stats computes every counter in a single scan over patients. COALESCE
// keeps the averages defined on an empty table.
func (r *dashboardRepoPG) Stats(ctx context.Context, today time.Time) (*Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'Done' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'Archived' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'Rescheduled' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN gender = 'Male' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN gender = 'Female' THEN 1 ELSE 0 END), 0),
			COALESCE(ROUND(AVG(age), 1), 0),
			COALESCE(SUM(CASE WHEN appointment_date = $1 THEN 1 ELSE 0 END), 0)
		FROM patients`, today.Format("2006-01-02")).
		Scan(&s.TotalPatients, &s.Pending, &s.Done, &s.Archived, &s.Rescheduled,
			&s.Male, &s.Female, &s.AverageAge, &s.TodayAppointments)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *dashboardRepoPG) Recent(ctx context.Context, limit int) ([]RecentPatient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, illness_diagnosis, status, created_at
		FROM patients
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RecentPatient
	for rows.Next() {
		var p RecentPatient
		if err := rows.Scan(&p.ID, &p.FullName, &p.IllnessDiagnosis, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
