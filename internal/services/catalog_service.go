package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	_ "embed"

	"github.com/quickbite/storefront/internal/domain"
	"github.com/quickbite/storefront/internal/platform/textutil"
)

const (
	defaultProductName     = "Unknown Meal"
	defaultCategory        = "Other"
	defaultDescription     = "Delicious meal."
	descriptionLimit       = 90
	categoryDisplayLimit   = 8
	defaultFeaturedProduct = 3
)

//go:embed meals.json
var rawMealData []byte

// MealRecord is one raw entry of the embedded meal dataset.
type MealRecord struct {
	ID           string `json:"idMeal"`
	Name         string `json:"strMeal"`
	Category     string `json:"strCategory"`
	Thumb        string `json:"strMealThumb"`
	Instructions string `json:"strInstructions"`
}

type mealDataset struct {
	Meals []MealRecord `json:"meals"`
}

// LoadEmbeddedMeals decodes the dataset shipped with the binary. A
// malformed dataset yields an empty slice and an error the caller logs;
// the storefront keeps serving with an empty catalogue.
func LoadEmbeddedMeals() ([]MealRecord, error) {
	var dataset mealDataset
	if err := json.Unmarshal(rawMealData, &dataset); err != nil {
		return nil, errors.New("catalog service: embedded meal dataset is malformed")
	}
	return dataset.Meals, nil
}

// CatalogServiceDeps wires the catalog construction inputs.
type CatalogServiceDeps struct {
	Logger func(context.Context, string, map[string]any)
}

type catalogService struct {
	products []Product
	index    map[string]Product
	logger   func(context.Context, string, map[string]any)
}

// NewCatalogService constructs an empty catalog; call Rebuild with the
// source records to populate it.
func NewCatalogService(deps CatalogServiceDeps) CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &catalogService{
		products: []Product{},
		index:    map[string]Product{},
		logger:   logger,
	}
}

// Rebuild maps raw records into products and replaces all prior state.
func (s *catalogService) Rebuild(records []MealRecord) {
	products := make([]Product, 0, len(records))
	index := make(map[string]Product, len(records))

	for _, record := range records {
		product := productFromRecord(record)
		products = append(products, product)
		index[product.ID] = product
	}

	s.products = products
	s.index = index

	if len(products) == 0 {
		s.logger(context.Background(), "catalog.empty", map[string]any{
			"records": len(records),
		})
	}
}

func productFromRecord(record MealRecord) Product {
	name := strings.TrimSpace(record.Name)
	if name == "" {
		name = defaultProductName
	}
	category := strings.TrimSpace(record.Category)
	if category == "" {
		category = defaultCategory
	}
	instructions := strings.TrimSpace(record.Instructions)
	if instructions == "" {
		instructions = defaultDescription
	}

	return Product{
		ID:          record.ID,
		Name:        name,
		Category:    category,
		ImageURL:    strings.TrimSpace(record.Thumb),
		Description: textutil.Truncate(instructions, descriptionLimit),
		PriceCents:  domain.PriceFromID(record.ID),
	}
}

// Products returns the full ordered product list.
func (s *catalogService) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product looks up one product by id.
func (s *catalogService) Product(id string) (Product, bool) {
	product, ok := s.index[id]
	return product, ok
}

// Categories returns the sorted unique category names, capped at the
// storefront's display limit.
func (s *catalogService) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, product := range s.products {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)
	if len(categories) > categoryDisplayLimit {
		categories = categories[:categoryDisplayLimit]
	}
	return categories
}

// ProductsInCategory filters the catalogue by exact category name.
func (s *catalogService) ProductsInCategory(category string) []Product {
	var out []Product
	for _, product := range s.products {
		if product.Category == category {
			out = append(out, product)
		}
	}
	return out
}

// Search filters by case-insensitive substring match against name and
// description. An empty query returns everything.
func (s *catalogService) Search(query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.Products()
	}
	var out []Product
	for _, product := range s.products {
		if strings.Contains(strings.ToLower(product.Name), query) ||
			strings.Contains(strings.ToLower(product.Description), query) {
			out = append(out, product)
		}
	}
	return out
}

// Featured returns the first products of the catalogue for the hero area.
func (s *catalogService) Featured(limit int) []Product {
	if limit <= 0 {
		limit = defaultFeaturedProduct
	}
	if limit > len(s.products) {
		limit = len(s.products)
	}
	out := make([]Product, limit)
	copy(out, s.products[:limit])
	return out
}

// Len reports the number of indexed products.
func (s *catalogService) Len() int {
	return len(s.products)
}
