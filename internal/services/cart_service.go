package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/quickbite/storefront/internal/storage"
)

const cartStoreKey = "cart"

// CartServiceDeps wires the cart construction inputs. Store is required;
// OnCountChange and Logger are optional.
type CartServiceDeps struct {
	Store storage.KeyValueStore
	// OnCountChange observes the total line quantity after every mutation.
	// The storefront uses it to refresh the header badge.
	OnCountChange func(count int)
	Logger        func(context.Context, string, map[string]any)
}

type cartService struct {
	mu            sync.Mutex
	store         storage.KeyValueStore
	onCountChange func(count int)
	logger        func(context.Context, string, map[string]any)
}

// NewCartService constructs a cart backed by the given key-value store.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Store == nil {
		return nil, errors.New("cart service: store is required")
	}
	onCountChange := deps.OnCountChange
	if onCountChange == nil {
		onCountChange = func(int) {}
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &cartService{
		store:         deps.Store,
		onCountChange: onCountChange,
		logger:        logger,
	}, nil
}

// Get returns the persisted cart lines. A missing or unreadable cart reads
// as empty.
func (s *cartService) Get() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add merges the item into the cart by id. Quantities below 1 count as 1.
// Product attributes are snapshotted from the item on first insert and left
// untouched on merge.
func (s *cartService) Add(item CartLine, qty int) []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(item.ID)
	if id == "" {
		s.logger(context.Background(), "cart.add.invalid", map[string]any{
			"reason": "empty id",
		})
		return s.load()
	}
	if qty < 1 {
		qty = 1
	}

	lines := s.load()
	merged := false
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		item.ID = id
		item.Qty = qty
		lines = append(lines, item)
	}

	s.save(lines)
	return lines
}

// UpdateQty sets the quantity of an existing line, clamping to a minimum
// of 1. Unknown ids are a no-op; lines leave the cart only through Remove
// or Clear.
func (s *cartService) UpdateQty(id string, qty int) []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty < 1 {
		qty = 1
	}

	lines := s.load()
	changed := false
	for i := range lines {
		if lines[i].ID == id {
			if lines[i].Qty != qty {
				lines[i].Qty = qty
				changed = true
			}
			break
		}
	}
	if changed {
		s.save(lines)
	}
	return lines
}

// Remove drops the line with the given id, if present.
func (s *cartService) Remove(id string) []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load()
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if line.ID == id {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if removed {
		s.save(kept)
	}
	return kept
}

// Clear empties the cart.
func (s *cartService) Clear() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.save([]CartLine{})
	return []CartLine{}
}

// Count sums the quantities of every line.
func (s *cartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countLines(s.load())
}

// load reads the persisted cart; any failure degrades to an empty cart.
func (s *cartService) load() []CartLine {
	raw, err := s.store.Get(cartStoreKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger(context.Background(), "cart.load.failed", map[string]any{
				"error": err.Error(),
			})
		}
		return []CartLine{}
	}
	var lines []CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger(context.Background(), "cart.load.corrupt", map[string]any{
			"error": err.Error(),
		})
		return []CartLine{}
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return lines
}

// save persists the lines and notifies the badge observer. Persistence
// failures are logged; the in-memory view stays authoritative for the call.
func (s *cartService) save(lines []CartLine) {
	encoded, err := json.Marshal(lines)
	if err == nil {
		err = s.store.Set(cartStoreKey, encoded)
	}
	if err != nil {
		s.logger(context.Background(), "cart.save.failed", map[string]any{
			"error": err.Error(),
		})
	}
	s.onCountChange(countLines(lines))
}

func countLines(lines []CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Qty
	}
	return total
}
