// Package jsonfile stores the visitor log as a flat JSON array file,
// created with "[]" when absent and rewritten in full, pretty-printed, on
// every append.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/quickbite/storefront/internal/domain"
	"github.com/quickbite/storefront/internal/repositories"
)

// VisitRepository persists visit records in a single JSON array file.
// Appends run behind a mutex so concurrent requests cannot lose writes to
// the read-modify-write cycle.
type VisitRepository struct {
	mu   sync.Mutex
	path string
}

// NewVisitRepository constructs a repository writing to the given path,
// creating the parent directory and an empty log when absent.
func NewVisitRepository(path string) (*VisitRepository, error) {
	if path == "" {
		return nil, errors.New("visit repository: file path is required")
	}
	repo := &VisitRepository{path: path}
	if err := repo.ensureFile(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Append implements repositories.VisitRepository.
func (r *VisitRepository) Append(ctx context.Context, visit domain.VisitRecord) (domain.VisitRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.VisitRecord{}, repositories.NewUnavailable("visit append", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	visits := r.readAll()
	visits = append(visits, visit)

	if err := r.writeAll(visits); err != nil {
		return domain.VisitRecord{}, repositories.NewUnavailable("visit append", err)
	}
	return visit, nil
}

// List implements repositories.VisitRepository.
func (r *VisitRepository) List(ctx context.Context) ([]domain.VisitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, repositories.NewUnavailable("visit list", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.readAll(), nil
}

func (r *VisitRepository) ensureFile() error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("visit repository: creating %s: %w", dir, err)
		}
	}
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(r.path, []byte("[]"), 0o644); err != nil {
			return fmt.Errorf("visit repository: seeding %s: %w", r.path, err)
		}
	}
	return nil
}

// readAll treats a missing or corrupt log as empty; the log is best-effort
// and never blocks serving.
func (r *VisitRepository) readAll() []domain.VisitRecord {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return []domain.VisitRecord{}
	}
	var visits []domain.VisitRecord
	if err := json.Unmarshal(raw, &visits); err != nil || visits == nil {
		return []domain.VisitRecord{}
	}
	return visits
}

func (r *VisitRepository) writeAll(visits []domain.VisitRecord) error {
	encoded, err := json.MarshalIndent(visits, "", "  ")
	if err != nil {
		return err
	}
	if err := r.ensureFile(); err != nil {
		return err
	}
	return os.WriteFile(r.path, encoded, 0o644)
}
