package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

type mockRepo struct {
	entries map[uuid.UUID]*DrugInteraction
	listErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{entries: make(map[uuid.UUID]*DrugInteraction)}
}

func (m *mockRepo) Create(_ context.Context, d *DrugInteraction) error {
	d.ID = uuid.New()
	d.DrugA = NormalizeName(d.DrugA)
	d.DrugB = NormalizeName(d.DrugB)
	m.entries[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*DrugInteraction, error) {
	d, ok := m.entries[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return d, nil
}

func (m *mockRepo) Update(_ context.Context, d *DrugInteraction) error {
	m.entries[d.ID] = d
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.entries, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*DrugInteraction, int, error) {
	all, err := m.ListActive(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return all, len(all), nil
}

func (m *mockRepo) ListActive(_ context.Context) ([]*DrugInteraction, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*DrugInteraction
	for _, d := range m.entries {
		if d.Active {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	repo := newMockRepo()
	return NewService(repo, NewStore(), zerolog.Nop()), repo
}

func seedEntry(t *testing.T, svc *Service, a, b string, sev Severity) *DrugInteraction {
	t.Helper()
	d := &DrugInteraction{
		DrugA:       a,
		DrugB:       b,
		Severity:    sev,
		Description: "interaction between " + a + " and " + b,
		Active:      true,
	}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return d
}

func TestLookupSymmetric(t *testing.T) {
	svc, _ := newTestService(t)
	seedEntry(t, svc, "warfarin", "aspirin", SeverityMajor)

	for _, pair := range [][2]string{{"warfarin", "aspirin"}, {"Aspirin", "WARFARIN"}} {
		entry, found, err := svc.Lookup(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("lookup (%s, %s): %v", pair[0], pair[1], err)
		}
		if !found {
			t.Fatalf("expected entry for (%s, %s)", pair[0], pair[1])
		}
		if entry.Severity != SeverityMajor {
			t.Errorf("severity = %s, want major", entry.Severity)
		}
	}
}

func TestLookupNoEntryIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)
	seedEntry(t, svc, "warfarin", "aspirin", SeverityMajor)

	entry, found, err := svc.Lookup(context.Background(), "paracetamol", "ibuprofen")
	if err != nil {
		t.Fatalf("lookup of unknown pair should not error, got %v", err)
	}
	if found || entry != nil {
		t.Error("expected no entry for unknown pair")
	}
}

func TestLookupValidation(t *testing.T) {
	svc, _ := newTestService(t)
	seedEntry(t, svc, "warfarin", "aspirin", SeverityMajor)

	cases := [][2]string{
		{"", "aspirin"},
		{"warfarin", "   "},
		{"aspirin", "Aspirin"}, // self pair after folding
	}
	for _, pair := range cases {
		if _, _, err := svc.Lookup(context.Background(), pair[0], pair[1]); !errors.Is(err, engineerr.ErrValidation) {
			t.Errorf("lookup (%q, %q): expected validation error, got %v", pair[0], pair[1], err)
		}
	}
}

func TestLookupUnloadedStoreIsUnavailable(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, NewStore(), zerolog.Nop())

	_, _, err := svc.Lookup(context.Background(), "warfarin", "aspirin")
	if !errors.Is(err, engineerr.ErrUnavailable) {
		t.Fatalf("expected unavailable error for unloaded store, got %v", err)
	}
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	svc, repo := newTestService(t)
	seedEntry(t, svc, "warfarin", "aspirin", SeverityMajor)

	repo.listErr = errors.New("connection refused")
	if _, err := svc.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}

	_, found, err := svc.Lookup(context.Background(), "warfarin", "aspirin")
	if err != nil || !found {
		t.Fatalf("previous snapshot should survive a failed reload: found=%v err=%v", found, err)
	}
}

func TestReloadSkipsInactiveEntries(t *testing.T) {
	svc, _ := newTestService(t)
	d := seedEntry(t, svc, "warfarin", "aspirin", SeverityMajor)

	d.Active = false
	if err := svc.Update(context.Background(), d); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, found, err := svc.Lookup(context.Background(), "warfarin", "aspirin")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found {
		t.Error("inactive entry should not be in the snapshot")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	bad := []*DrugInteraction{
		{DrugA: "", DrugB: "aspirin", Severity: SeverityMajor, Description: "x"},
		{DrugA: "warfarin", DrugB: "Warfarin", Severity: SeverityMajor, Description: "x"},
		{DrugA: "warfarin", DrugB: "aspirin", Severity: "fatal", Description: "x"},
		{DrugA: "warfarin", DrugB: "aspirin", Severity: SeverityMajor, Description: ""},
	}
	for i, d := range bad {
		if err := svc.Create(context.Background(), d); !errors.Is(err, engineerr.ErrValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestDeleteUnknownEntry(t *testing.T) {
	svc, _ := newTestService(t)
	seedEntry(t, svc, "warfarin", "aspirin", SeverityMajor)

	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, engineerr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
