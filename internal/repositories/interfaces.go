package repositories

import (
	"context"

	"github.com/quickbite/storefront/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsUnavailable() bool
}

// VisitRepository persists the append-only visitor log.
type VisitRepository interface {
	// Append stores one visit record and returns the stored form.
	Append(ctx context.Context, visit domain.VisitRecord) (domain.VisitRecord, error)
	// List returns every stored visit in append order.
	List(ctx context.Context) ([]domain.VisitRecord, error)
}
