package patient

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// -- Mock Repository --

// mockRepo is an in-memory Repository that mirrors the store contract:
// creation order ids, created_at DESC / id DESC listing, filter semantics,
// and status writes that leave updated_at untouched.
type mockRepo struct {
	records map[int64]*Patient
	nextID  int64
	clock   time.Time
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records: make(map[int64]*Patient),
		nextID:  1,
		clock:   time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = m.nextID
	m.nextID++
	if p.Status == "" {
		p.Status = StatusPending
	}
	now := m.tick()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.records[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	existing, ok := m.records[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = m.tick()
	cp := *p
	m.records[p.ID] = &cp
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	p, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	var matched []*Patient
	for _, p := range m.records {
		if !matches(p, filter) {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matches(p *Patient, f ListFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.FullName), needle) &&
			!strings.Contains(strings.ToLower(p.PhoneNumber), needle) &&
			!strings.Contains(strings.ToLower(p.IllnessDiagnosis), needle) {
			return false
		}
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	return true
}

// -- Helpers --

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func validPatient(name string) *Patient {
	return &Patient{
		FullName:         name,
		Age:              34,
		Gender:           "Female",
		PhoneNumber:      "(555) 123-4567",
		AppointmentDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		IllnessDiagnosis: "Flu",
	}
}

// -- Registration --

func TestRegister_DefaultsToPendingAndListsFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first := validPatient("Ana Cruz")
	if err := svc.Register(ctx, first, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != StatusPending {
		t.Errorf("expected status Pending, got %s", first.Status)
	}
	if first.ID == 0 {
		t.Error("expected ID to be assigned")
	}

	second := validPatient("Bo Chen")
	if err := svc.Register(ctx, second, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, total, err := svc.List(ctx, ListFilter{}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 patients, got %d", total)
	}
	if items[0].FullName != "Bo Chen" {
		t.Errorf("expected most recent registration first, got %s", items[0].FullName)
	}
}

func TestRegister_RequiredFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		field  string
		mutate func(*Patient)
	}{
		{"full_name", func(p *Patient) { p.FullName = "" }},
		{"gender", func(p *Patient) { p.Gender = "" }},
		{"phone_number", func(p *Patient) { p.PhoneNumber = "" }},
		{"appointment_date", func(p *Patient) { p.AppointmentDate = time.Time{} }},
		{"illness_diagnosis", func(p *Patient) { p.IllnessDiagnosis = "" }},
	}
	for _, tc := range cases {
		p := validPatient("Ana Cruz")
		tc.mutate(p)
		err := svc.Register(ctx, p, "mgreen")
		ve, ok := err.(*ValidationError)
		if !ok {
			t.Errorf("%s: expected ValidationError, got %v", tc.field, err)
			continue
		}
		if ve.Field != tc.field {
			t.Errorf("expected error on %s, got %s", tc.field, ve.Field)
		}
	}
}

func TestRegister_AgeRangeNotChecked(t *testing.T) {
	// The registration path performs presence checks only; the 0-120 bound
	// applies on the edit path.
	svc, repo := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	p.Age = 150
	if err := svc.Register(ctx, p, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.GetByID(ctx, p.ID)
	if stored.Age != 150 {
		t.Errorf("expected out-of-range age stored as-is, got %d", stored.Age)
	}
}

func TestRegister_StatusNotSettable(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient("Ana Cruz")
	p.Status = StatusDone
	if err := svc.Register(context.Background(), p, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusPending {
		t.Errorf("expected create to force Pending, got %s", p.Status)
	}
}

func TestRegister_AppointmentWindow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	past := validPatient("Ana Cruz")
	past.AppointmentDate = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if err := svc.Register(ctx, past, "mgreen"); err == nil {
		t.Error("expected error for past appointment date")
	}

	today := validPatient("Ana Cruz")
	today.AppointmentDate = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if err := svc.Register(ctx, today, "mgreen"); err != nil {
		t.Errorf("expected today to be accepted: %v", err)
	}

	edge := validPatient("Bo Chen")
	edge.AppointmentDate = time.Date(2027, 8, 31, 0, 0, 0, 0, time.UTC)
	if err := svc.Register(ctx, edge, "mgreen"); err != nil {
		t.Errorf("expected one year out to be accepted: %v", err)
	}

	far := validPatient("Cai Duong")
	far.AppointmentDate = time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC)
	if err := svc.Register(ctx, far, "mgreen"); err == nil {
		t.Error("expected error for appointment beyond one year")
	}
}

func TestRegister_PhoneFormat(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient("Ana Cruz")
	p.PhoneNumber = "555-123-4567"
	err := svc.Register(context.Background(), p, "")
	if err == nil {
		t.Error("expected error for unformatted phone number")
	}
}

// -- Status transitions --

func TestSetStatus_Reversible(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	svc.Register(ctx, p, "mgreen")

	for _, s1 := range Statuses() {
		for _, s2 := range Statuses() {
			if err := svc.SetStatus(ctx, p.ID, s2, "mgreen"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := svc.SetStatus(ctx, p.ID, s1, "mgreen"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			stored, _ := repo.GetByID(ctx, p.ID)
			if stored.Status != s1 {
				t.Errorf("after %s then %s: expected %s, got %s", s2, s1, s1, stored.Status)
			}
		}
	}
}

func TestSetStatus_Idempotent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	svc.Register(ctx, p, "mgreen")

	if err := svc.SetStatus(ctx, p.ID, StatusDone, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetStatus(ctx, p.ID, StatusDone, "mgreen"); err != nil {
		t.Fatalf("expected re-applying the same status to succeed: %v", err)
	}

	stored, _ := repo.GetByID(ctx, p.ID)
	if stored.Status != StatusDone {
		t.Errorf("expected Done, got %s", stored.Status)
	}
}

func TestSetStatus_DoesNotBumpUpdatedAt(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	svc.Register(ctx, p, "mgreen")
	before, _ := repo.GetByID(ctx, p.ID)

	svc.SetStatus(ctx, p.ID, StatusArchived, "mgreen")

	after, _ := repo.GetByID(ctx, p.ID)
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("expected status-only update to leave updated_at untouched")
	}
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	svc.Register(ctx, p, "mgreen")

	if err := svc.SetStatus(ctx, p.ID, "Deleted", "mgreen"); err != ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSetStatus_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.SetStatus(context.Background(), 999, StatusDone, "mgreen"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// -- Filtering and search --

func TestList_ArchivedFilterAndDefaultInclusion(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	active := validPatient("Ana Cruz")
	svc.Register(ctx, active, "mgreen")

	archived := validPatient("Bo Chen")
	svc.Register(ctx, archived, "mgreen")
	svc.SetStatus(ctx, archived.ID, StatusArchived, "mgreen")

	items, total, err := svc.List(ctx, ListFilter{Status: "Archived"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].ID != archived.ID {
		t.Errorf("expected only the archived patient, got %d results", total)
	}

	// The unfiltered list includes Archived records.
	_, total, err = svc.List(ctx, ListFilter{}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected unfiltered list to include archived patients, got %d", total)
	}
}

func TestList_SearchAcrossThreeFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	byName := validPatient("John Smith")
	svc.Register(ctx, byName, "mgreen")

	byDiagnosis := validPatient("Mary Poe")
	byDiagnosis.IllnessDiagnosis = "Smithsonian flu"
	svc.Register(ctx, byDiagnosis, "mgreen")

	neither := validPatient("Jones")
	neither.IllnessDiagnosis = "Flu"
	svc.Register(ctx, neither, "mgreen")

	items, total, err := svc.List(ctx, ListFilter{Search: "Smith"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 matches, got %d", total)
	}
	for _, p := range items {
		if p.ID == neither.ID {
			t.Error("expected Jones/Flu not to match")
		}
	}
}

func TestList_UnrecognizedFilterMatchesNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Register(ctx, validPatient("Ana Cruz"), "mgreen")

	_, total, err := svc.List(ctx, ListFilter{Status: "Removed"}, 20, 0)
	if err != nil {
		t.Fatalf("expected empty result, not an error: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 matches, got %d", total)
	}
}

// -- Edit path --

func TestUpdate_AgeOutOfRangeRejected(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	svc.Register(ctx, p, "mgreen")
	before, _ := repo.GetByID(ctx, p.ID)

	edit := *before
	edit.Age = 150
	err := svc.Update(ctx, &edit, "mgreen")
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	stored, _ := repo.GetByID(ctx, p.ID)
	if stored.Age != before.Age || !stored.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("expected record unchanged after rejected edit")
	}
}

func TestUpdate_ValidEditAdvancesUpdatedAt(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	svc.Register(ctx, p, "mgreen")
	before, _ := repo.GetByID(ctx, p.ID)

	edit := *before
	edit.Age = 45
	if err := svc.Update(ctx, &edit, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.GetByID(ctx, p.ID)
	if stored.Age != 45 {
		t.Errorf("expected age 45, got %d", stored.Age)
	}
	if !stored.UpdatedAt.After(before.UpdatedAt) {
		t.Error("expected updated_at to advance on full edit")
	}
}

func TestUpdate_StatusSettable(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := validPatient("Ana Cruz")
	svc.Register(ctx, p, "mgreen")

	edit := *p
	edit.Status = StatusRescheduled
	if err := svc.Update(ctx, &edit, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.GetByID(ctx, p.ID)
	if stored.Status != StatusRescheduled {
		t.Errorf("expected Rescheduled, got %s", stored.Status)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()

	p := validPatient("Ana Cruz")
	p.ID = 999
	if err := svc.Update(context.Background(), p, "mgreen"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// -- End to end --

func TestCreateThenDoneThenFilteredList(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := &Patient{
		FullName:         "Ana Cruz",
		Age:              34,
		Gender:           "Female",
		PhoneNumber:      "(555) 123-4567",
		AppointmentDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		IllnessDiagnosis: "Flu",
	}
	if err := svc.Register(ctx, p, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusPending {
		t.Fatalf("expected Pending after creation, got %s", p.Status)
	}

	if err := svc.SetStatus(ctx, p.ID, StatusDone, "mgreen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, total, err := svc.List(ctx, ListFilter{Status: "Done"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].ID != p.ID || items[0].FullName != "Ana Cruz" {
		t.Errorf("expected exactly the completed patient, got total=%d", total)
	}
}
