package services

import (
	"context"

	"github.com/quickbite/storefront/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Product     = domain.Product
	CartLine    = domain.CartLine
	OrderTotals = domain.OrderTotals
	VisitRecord = domain.VisitRecord
	VisitSample = domain.VisitSample
	GeoLocation = domain.GeoLocation
)

// CatalogService owns the read-only product index built from the embedded
// meal dataset. Rebuild replaces prior state in full and is idempotent.
type CatalogService interface {
	Rebuild(records []MealRecord)
	Products() []Product
	Product(id string) (Product, bool)
	Categories() []string
	ProductsInCategory(category string) []Product
	Search(query string) []Product
	Featured(limit int) []Product
	Len() int
}

// CartService mutates the persisted shopping cart. Every operation fails
// soft: persistence problems degrade to the in-memory view and are logged,
// never surfaced to the caller. Quantities clamp to a minimum of 1; lines
// leave the cart only through Remove or Clear.
type CartService interface {
	Get() []CartLine
	Add(item CartLine, qty int) []CartLine
	UpdateQty(id string, qty int) []CartLine
	Remove(id string) []CartLine
	Clear() []CartLine
	Count() int
}

// CartPricer computes render-time order totals for a set of cart lines.
type CartPricer interface {
	Totals(lines []CartLine) OrderTotals
}

// GeoLookup resolves a best-effort location for an IP address.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) GeoLocation
}

// VisitService captures and reads the visitor log.
type VisitService interface {
	// RecordVisit stores at most one visit per session; failures are
	// swallowed and logged, and the call never blocks rendering paths.
	RecordVisit(ctx context.Context, sample VisitSample) (VisitRecord, bool)
	// LogVisit appends an enriched record unconditionally. The HTTP
	// endpoint uses it; session deduplication stays with RecordVisit.
	LogVisit(ctx context.Context, sample VisitSample) (VisitRecord, error)
	// ListVisits returns the complete log in append order.
	ListVisits(ctx context.Context) ([]VisitRecord, error)
	// ListRecentVisits returns up to limit most-recent records for the
	// visitor panel.
	ListRecentVisits(ctx context.Context, limit int) ([]VisitRecord, error)
}
