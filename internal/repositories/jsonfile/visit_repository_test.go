package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/quickbite/storefront/internal/domain"
)

func TestNewVisitRepositorySeedsEmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "visits.json")

	repo, err := NewVisitRepository(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected seeded file: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected empty array seed, got %s", raw)
	}

	visits, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != 0 {
		t.Fatalf("expected empty log, got %d records", len(visits))
	}
}

func TestVisitRepositoryAppendRewritesPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.json")
	repo, err := NewVisitRepository(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	visit := domain.VisitRecord{
		IP:        "203.0.113.5",
		City:      "Osaka",
		Country:   "Japan",
		UserAgent: "test-agent",
		Time:      "2026-09-01T10:00:00Z",
	}
	stored, err := repo.Append(ctx, visit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.IP != visit.IP {
		t.Fatalf("expected stored record to echo input, got %+v", stored)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []domain.VisitRecord
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("log is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].City != "Osaka" {
		t.Fatalf("unexpected log contents: %+v", decoded)
	}
	if raw[0] != '[' || raw[1] != '\n' {
		t.Fatalf("expected pretty-printed array, got %s", raw[:16])
	}
}

func TestVisitRepositoryCorruptLogFailsSoft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("failed seeding corrupt log: %v", err)
	}

	repo, err := NewVisitRepository(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	visits, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != 0 {
		t.Fatalf("expected corrupt log to read as empty, got %d", len(visits))
	}

	if _, err := repo.Append(ctx, domain.VisitRecord{IP: "127.0.0.1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	visits, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != 1 {
		t.Fatalf("expected append to recover the log, got %d records", len(visits))
	}
}

func TestVisitRepositoryConcurrentAppendsLoseNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.json")
	repo, err := NewVisitRepository(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	const writers = 16

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_, _ = repo.Append(ctx, domain.VisitRecord{IP: "10.0.0." + strconv.Itoa(n)})
		}(i)
	}
	wg.Wait()

	visits, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != writers {
		t.Fatalf("expected %d records, got %d", writers, len(visits))
	}
}
