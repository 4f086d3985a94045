package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medrefer-ai/interaction-engine/internal/platform/metrics"
	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

// Service owns the drug interaction knowledge base: the persistent entries
// and the in-memory snapshot that lookups run against.
type Service struct {
	repo  Repository
	store *Store
	log   zerolog.Logger
}

func NewService(repo Repository, store *Store, log zerolog.Logger) *Service {
	return &Service{repo: repo, store: store, log: log}
}

// Lookup resolves the interaction entry for an unordered pair of drug names.
// The pair is matched case-insensitively and in either order. found is false
// when the knowledge base holds no entry for the pair, which is a valid
// outcome, not an error. When the knowledge base has never been loaded the
// error is engineerr.ErrUnavailable.
func (s *Service) Lookup(_ context.Context, a, b string) (*DrugInteraction, bool, error) {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return nil, false, fmt.Errorf("drug name must not be empty: %w", engineerr.ErrValidation)
	}
	if na == nb {
		return nil, false, fmt.Errorf("cannot check a drug against itself: %w", engineerr.ErrValidation)
	}

	entry, found, loaded := s.store.Lookup(na, nb)
	if !loaded {
		return nil, false, fmt.Errorf("knowledge base not loaded: %w", engineerr.ErrUnavailable)
	}
	return entry, found, nil
}

// Reload rebuilds the in-memory snapshot from the active entries in the
// repository. On repository failure the previous snapshot stays in place.
func (s *Service) Reload(ctx context.Context) (int, error) {
	entries, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("load interaction entries: %w", err)
	}

	s.store.Replace(entries)
	metrics.KnowledgeEntries.Set(float64(s.store.Len()))
	metrics.KnowledgeReloads.Inc()

	s.log.Info().Int("entries", s.store.Len()).Msg("knowledge base reloaded")
	return s.store.Len(), nil
}

// Create validates and persists a new entry, then refreshes the snapshot.
func (s *Service) Create(ctx context.Context, d *DrugInteraction) error {
	if err := validate(d); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return fmt.Errorf("create interaction entry: %w", err)
	}
	_, err := s.Reload(ctx)
	return err
}

// Get returns an entry by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DrugInteraction, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, engineerr.NotFoundf("interaction entry %s", id)
	}
	return d, nil
}

// Update validates and persists changes to an entry, then refreshes the
// snapshot.
func (s *Service) Update(ctx context.Context, d *DrugInteraction) error {
	if err := validate(d); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, d.ID); err != nil {
		return engineerr.NotFoundf("interaction entry %s", d.ID)
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return fmt.Errorf("update interaction entry: %w", err)
	}
	_, err := s.Reload(ctx)
	return err
}

// Delete removes an entry and refreshes the snapshot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return engineerr.NotFoundf("interaction entry %s", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete interaction entry: %w", err)
	}
	_, err := s.Reload(ctx)
	return err
}

// LoadedAt reports when the current snapshot was installed. Zero when the
// knowledge base has never been loaded.
func (s *Service) LoadedAt() time.Time {
	return s.store.LoadedAt()
}

// List returns a page of entries with the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*DrugInteraction, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Seed loads entries from a JSON file into the repository and refreshes the
// snapshot. Entries already present (same pair) are skipped.
func (s *Service) Seed(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var entries []*DrugInteraction
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	existing, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("load existing entries: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e.Key()] = struct{}{}
	}

	inserted := 0
	for _, e := range entries {
		if err := validate(e); err != nil {
			return inserted, fmt.Errorf("seed entry %s/%s: %w", e.DrugA, e.DrugB, err)
		}
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		e.Active = true
		if err := s.repo.Create(ctx, e); err != nil {
			return inserted, fmt.Errorf("seed entry %s/%s: %w", e.DrugA, e.DrugB, err)
		}
		seen[e.Key()] = struct{}{}
		inserted++
	}

	if _, err := s.Reload(ctx); err != nil {
		return inserted, err
	}
	return inserted, nil
}

func validate(d *DrugInteraction) error {
	if NormalizeName(d.DrugA) == "" || NormalizeName(d.DrugB) == "" {
		return fmt.Errorf("both drug names are required: %w", engineerr.ErrValidation)
	}
	if NormalizeName(d.DrugA) == NormalizeName(d.DrugB) {
		return fmt.Errorf("an interaction needs two distinct drugs: %w", engineerr.ErrValidation)
	}
	if !d.Severity.Valid() {
		return fmt.Errorf("unknown severity %q: %w", d.Severity, engineerr.ErrValidation)
	}
	if d.Description == "" {
		return fmt.Errorf("description is required: %w", engineerr.ErrValidation)
	}
	return nil
}
