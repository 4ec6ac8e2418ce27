package patient

import "fmt"

// Actions holds the per-record affordances a client renders next to a
// patient: one target per status transition plus the edit target.
type Actions struct {
	Done        string `json:"done"`
	Pending     string `json:"pending"`
	Archived    string `json:"archived"`
	Rescheduled string `json:"rescheduled"`
	Edit        string `json:"edit"`
}

// Row is the table-oriented view of one patient.
type Row struct {
	ID              int64   `json:"id"`
	FullName        string  `json:"full_name"`
	Age             int     `json:"age"`
	Gender          string  `json:"gender"`
	PhoneNumber     string  `json:"phone_number"`
	Diagnosis       string  `json:"diagnosis"`
	AppointmentDate string  `json:"appointment_date"`
	Status          Status  `json:"status"`
	Symptoms        *string `json:"symptoms,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	NotesPreview    string  `json:"notes_preview,omitempty"`
	Actions         Actions `json:"actions"`
}

// Card is the card-oriented view of one patient. It carries the same data
// and the same action targets as Row; which of the two a client renders is a
// display-width decision made at render time, not here.
type Card struct {
	ID              int64   `json:"id"`
	FullName        string  `json:"full_name"`
	Age             int     `json:"age"`
	Gender          string  `json:"gender"`
	PhoneNumber     string  `json:"phone_number"`
	Diagnosis       string  `json:"diagnosis"`
	AppointmentDate string  `json:"appointment_date"`
	Status          Status  `json:"status"`
	Symptoms        *string `json:"symptoms,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Actions         Actions `json:"actions"`
}

// ListView is the rendered result set: both view modes over the same ordered
// records.
type ListView struct {
	Rows  []Row  `json:"rows"`
	Cards []Card `json:"cards"`
	Count int    `json:"count"`
}

const notesPreviewLen = 30

// appointmentDisplayLayout matches the long-form date shown in both views.
const appointmentDisplayLayout = "January 2, 2006"

// Present builds both view modes from an ordered patient slice.
func Present(patients []*Patient) *ListView {
	view := &ListView{
		Rows:  make([]Row, 0, len(patients)),
		Cards: make([]Card, 0, len(patients)),
		Count: len(patients),
	}

	for _, p := range patients {
		actions := actionsFor(p.ID)
		date := p.AppointmentDate.Format(appointmentDisplayLayout)

		view.Rows = append(view.Rows, Row{
			ID:              p.ID,
			FullName:        p.FullName,
			Age:             p.Age,
			Gender:          p.Gender,
			PhoneNumber:     p.PhoneNumber,
			Diagnosis:       p.IllnessDiagnosis,
			AppointmentDate: date,
			Status:          p.Status,
			Symptoms:        p.Symptoms,
			Notes:           p.Notes,
			NotesPreview:    notesPreview(p.Notes),
			Actions:         actions,
		})
		view.Cards = append(view.Cards, Card{
			ID:              p.ID,
			FullName:        p.FullName,
			Age:             p.Age,
			Gender:          p.Gender,
			PhoneNumber:     p.PhoneNumber,
			Diagnosis:       p.IllnessDiagnosis,
			AppointmentDate: date,
			Status:          p.Status,
			Symptoms:        p.Symptoms,
			Notes:           p.Notes,
			Actions:         actions,
		})
	}

	return view
}

func actionsFor(id int64) Actions {
	statusTarget := func(s Status) string {
		return fmt.Sprintf("/api/v1/patients/%d/status?status=%s", id, s)
	}
	return Actions{
		Done:        statusTarget(StatusDone),
		Pending:     statusTarget(StatusPending),
		Archived:    statusTarget(StatusArchived),
		Rescheduled: statusTarget(StatusRescheduled),
		Edit:        fmt.Sprintf("/api/v1/patients/%d", id),
	}
}

func notesPreview(notes *string) string {
	if notes == nil || *notes == "" {
		return ""
	}
	n := *notes
	if len(n) <= notesPreviewLen {
		return n
	}
	return n[:notesPreviewLen] + "..."
}
