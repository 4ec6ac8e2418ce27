package patient

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Status is the lifecycle tag on a patient record.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusDone        Status = "Done"
	StatusArchived    Status = "Archived"
	StatusRescheduled Status = "Rescheduled"
)

// Statuses lists the four valid status values.
func Statuses() []Status {
	return []Status{StatusPending, StatusDone, StatusArchived, StatusRescheduled}
}

// ValidStatus reports whether s is one of the four enum values.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusDone, StatusArchived, StatusRescheduled:
		return true
	}
	return false
}

var validGenders = map[string]bool{
	"Male":              true,
	"Female":            true,
	"Other":             true,
	"Prefer not to say": true,
}

// ValidGender reports whether g is a recognized gender value.
func ValidGender(g string) bool {
	return validGenders[g]
}

// Patient maps to the patients table.
type Patient struct {
	ID               int64     `db:"id" json:"id"`
	FullName         string    `db:"full_name" json:"full_name"`
	Age              int       `db:"age" json:"age"`
	Gender           string    `db:"gender" json:"gender"`
	PhoneNumber      string    `db:"phone_number" json:"phone_number"`
	AppointmentDate  time.Time `db:"appointment_date" json:"appointment_date"`
	IllnessDiagnosis string    `db:"illness_diagnosis" json:"illness_diagnosis"`
	Symptoms         *string   `db:"symptoms" json:"symptoms,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	Status           Status    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Field length limits enforced at entry.
const (
	MaxFullNameLen  = 100
	MaxDiagnosisLen = 200
	MaxSymptomsLen  = 500
	MaxNotesLen     = 300
	MinAge          = 0
	MaxAge          = 120
)

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// ValidPhone reports whether p is formatted as (XXX) XXX-XXXX.
func ValidPhone(p string) bool {
	return phonePattern.MatchString(p)
}

// ErrNotFound is returned for operations referencing a non-existent patient.
var ErrNotFound = errors.New("patient not found")

// ErrInvalidStatus is returned when a status value is outside the four-member enum.
var ErrInvalidStatus = errors.New("invalid status")

// ValidationError carries a user-visible message for rejected input.
// No partial write occurs when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// validateRequired checks the non-empty constraints shared by the registration
// and edit paths. The age range is not checked here: the registration path only
// requires presence, the edit path layers the 0-120 bound on top.
func (p *Patient) validateRequired() error {
	if p.FullName == "" {
		return validationErr("full_name", "is required")
	}
	if len(p.FullName) > MaxFullNameLen {
		return validationErr("full_name", fmt.Sprintf("must be at most %d characters", MaxFullNameLen))
	}
	if p.Gender == "" {
		return validationErr("gender", "is required")
	}
	if !ValidGender(p.Gender) {
		return validationErr("gender", "must be Male, Female, Other, or Prefer not to say")
	}
	if p.PhoneNumber == "" {
		return validationErr("phone_number", "is required")
	}
	if !ValidPhone(p.PhoneNumber) {
		return validationErr("phone_number", "must be formatted as (XXX) XXX-XXXX")
	}
	if p.AppointmentDate.IsZero() {
		return validationErr("appointment_date", "is required")
	}
	if p.IllnessDiagnosis == "" {
		return validationErr("illness_diagnosis", "is required")
	}
	if len(p.IllnessDiagnosis) > MaxDiagnosisLen {
		return validationErr("illness_diagnosis", fmt.Sprintf("must be at most %d characters", MaxDiagnosisLen))
	}
	if p.Symptoms != nil && len(*p.Symptoms) > MaxSymptomsLen {
		return validationErr("symptoms", fmt.Sprintf("must be at most %d characters", MaxSymptomsLen))
	}
	if p.Notes != nil && len(*p.Notes) > MaxNotesLen {
		return validationErr("notes", fmt.Sprintf("must be at most %d characters", MaxNotesLen))
	}
	return nil
}
