package dashboard

import "time"

// Stats is the clinic overview shown on the landing page.
type Stats struct {
	TotalPatients     int     `json:"total_patients"`
	Pending           int     `json:"pending"`
	Done              int     `json:"done"`
	Archived          int     `json:"archived"`
	Rescheduled       int     `json:"rescheduled"`
	Male              int     `json:"male"`
	Female            int     `json:"female"`
	AverageAge        float64 `json:"average_age"`
	TodayAppointments int     `json:"today_appointments"`
}

// RecentPatient is a trimmed patient summary for the recent-registrations
// panel.
type RecentPatient struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"full_name"`
	IllnessDiagnosis string    `json:"illness_diagnosis"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Overview bundles the stats with the most recent registrations.
type Overview struct {
	Stats  Stats           `json:"stats"`
	Recent []RecentPatient `json:"recent"`
}
