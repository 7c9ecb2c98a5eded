package spa

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/quickbite/storefront/internal/services"
	"github.com/quickbite/storefront/internal/storage"
)

func testEngine(t *testing.T) (*Engine, services.CartService) {
	t.Helper()

	catalog := services.NewCatalogService(services.CatalogServiceDeps{})
	catalog.Rebuild([]services.MealRecord{
		{ID: "52772", Name: "Teriyaki Chicken Casserole", Category: "Chicken", Thumb: "teriyaki.jpg", Instructions: "Stir well."},
		{ID: "52874", Name: "Beef and Mustard Pie", Category: "Beef", Thumb: "pie.jpg", Instructions: "Bake slowly."},
		{ID: "52893", Name: "Apple and Blackberry Crumble", Category: "Dessert", Thumb: "crumble.jpg", Instructions: "Rub the butter in."},
		{ID: "53013", Name: "Big Mac", Category: "Beef", Thumb: "bigmac.jpg", Instructions: "Stack the patties."},
	})

	cart, err := services.NewCartService(services.CartServiceDeps{Store: storage.NewMemoryStore()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engine, err := NewEngine(EngineDeps{
		Catalog: catalog,
		Cart:    cart,
		Pricer:  services.NewPricingEngine(services.PricingEngineDeps{DeliveryFeeCents: 200}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return engine, cart
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("rendered view is not parseable HTML: %v", err)
	}
	return doc
}

func TestDispatchHomeRendersHeroAndSections(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/home"))
	if !strings.Contains(view.Title, "QuickBite") {
		t.Fatalf("unexpected title %q", view.Title)
	}

	doc := parseHTML(t, view.HTML)
	if got := doc.Find(".hero-slide").Length(); got != 3 {
		t.Fatalf("expected three hero slides, got %d", got)
	}
	if got := doc.Find(".category-btn").Length(); got != 3 {
		t.Fatalf("expected three category buttons, got %d", got)
	}
	if got := doc.Find(".category-section").Length(); got != 3 {
		t.Fatalf("expected three category sections, got %d", got)
	}
	if got := doc.Find(".product-card").Length(); got != 4 {
		t.Fatalf("expected four product cards, got %d", got)
	}
	if doc.Find("#cat-beef").Length() != 1 {
		t.Fatalf("expected slug anchor for beef category")
	}
}

func TestDispatchHomeCategoryFilter(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/home?cat=cat-beef"))
	doc := parseHTML(t, view.HTML)

	if got := doc.Find(".category-section").Length(); got != 1 {
		t.Fatalf("expected single filtered section, got %d", got)
	}
	if got := doc.Find(".product-card").Length(); got != 2 {
		t.Fatalf("expected two beef products, got %d", got)
	}
	if doc.Find(".category-btn.active").Length() != 1 {
		t.Fatalf("expected one active category button")
	}
}

func TestDispatchHomeSearch(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/home?q=beef"))
	doc := parseHTML(t, view.HTML)

	if doc.Find(".search-echo").Length() != 1 {
		t.Fatalf("expected search echo")
	}
	if got := doc.Find(".product-card").Length(); got != 1 {
		t.Fatalf("expected one search result, got %d", got)
	}

	view = engine.Dispatch(ParseFragment("#/home?q=zzzzz"))
	doc = parseHTML(t, view.HTML)
	if doc.Find(".no-results").Length() != 1 {
		t.Fatalf("expected no-results state")
	}
}

func TestDispatchHomeSanitisesQueryEcho(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/home?q=%3Cscript%3Ealert(1)%3C%2Fscript%3E"))
	if strings.Contains(view.HTML, "<script>") {
		t.Fatalf("expected script markup to be stripped from echo")
	}
}

func TestDispatchProductDetailAndNotFound(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/product/52772"))
	if !strings.Contains(view.Title, "Teriyaki Chicken Casserole") {
		t.Fatalf("unexpected title %q", view.Title)
	}
	doc := parseHTML(t, view.HTML)
	if doc.Find(".product-detail").Length() != 1 {
		t.Fatalf("expected product detail section")
	}
	if got := doc.Find(".product-detail .price").Text(); got != "$11.20" {
		t.Fatalf("unexpected price %q", got)
	}

	view = engine.Dispatch(ParseFragment("#/product/nope"))
	doc = parseHTML(t, view.HTML)
	if doc.Find(".product-missing").Length() != 1 {
		t.Fatalf("expected not-found state")
	}
}

func TestDispatchProductAcceptsQueryID(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/product?id=52772"))
	if !strings.Contains(view.Title, "Teriyaki Chicken Casserole") {
		t.Fatalf("unexpected title %q", view.Title)
	}
	doc := parseHTML(t, view.HTML)
	if doc.Find(".product-detail").Length() != 1 {
		t.Fatalf("expected product detail for query-form id")
	}

	// The path segment wins when both forms are present.
	view = engine.Dispatch(ParseFragment("#/product/52874?id=52772"))
	if !strings.Contains(view.Title, "Beef and Mustard Pie") {
		t.Fatalf("unexpected title %q", view.Title)
	}
}

func TestDispatchOrderRendersLinesAndTotals(t *testing.T) {
	engine, cart := testEngine(t)
	cart.Add(services.CartLine{ID: "1", Name: "Burger", PriceCents: 500, ImageURL: "burger.jpg"}, 2)
	cart.Add(services.CartLine{ID: "2", Name: "Fries", PriceCents: 350}, 1)

	view := engine.Dispatch(ParseFragment("#/order"))
	doc := parseHTML(t, view.HTML)

	if got := doc.Find(".order-line").Length(); got != 2 {
		t.Fatalf("expected two order lines, got %d", got)
	}
	if got := doc.Find(".order-totals .subtotal").Text(); got != "$13.50" {
		t.Fatalf("unexpected subtotal %q", got)
	}
	if got := doc.Find(".order-totals .total").Text(); got != "$15.50" {
		t.Fatalf("unexpected total %q", got)
	}
	if doc.Find(".qty-inc").Length() != 2 || doc.Find(".qty-dec").Length() != 2 {
		t.Fatalf("expected quantity controls on every line")
	}
}

func TestDispatchOrderEmptyState(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/order"))
	doc := parseHTML(t, view.HTML)
	if doc.Find(".order-empty").Length() != 1 {
		t.Fatalf("expected empty-state order view")
	}
}

func TestDispatchUnknownRouteFallsBackToHome(t *testing.T) {
	engine, _ := testEngine(t)

	view := engine.Dispatch(ParseFragment("#/no-such-view"))
	doc := parseHTML(t, view.HTML)
	if doc.Find(".hero").Length() != 1 {
		t.Fatalf("expected home fallback for unknown route")
	}
}

func TestDispatchIsIdempotentPerFragment(t *testing.T) {
	engine, _ := testEngine(t)

	first := engine.Dispatch(ParseFragment("#/about"))
	second := engine.Dispatch(ParseFragment("#/about"))
	if first.HTML != second.HTML || first.Title != second.Title {
		t.Fatalf("expected identical output for repeated dispatch")
	}
	if second.Generation <= first.Generation {
		t.Fatalf("expected generation to advance, got %d then %d", first.Generation, second.Generation)
	}
	if engine.CurrentGeneration() != second.Generation {
		t.Fatalf("expected current generation to match last dispatch")
	}
}

func TestStaticViews(t *testing.T) {
	engine, _ := testEngine(t)

	for _, name := range []string{RouteAbout, RouteContact, RouteBook} {
		view := engine.Dispatch(Route{Name: name})
		if view.HTML == "" {
			t.Fatalf("expected markup for %q view", name)
		}
		doc := parseHTML(t, view.HTML)
		if doc.Find("h1").Length() != 1 {
			t.Fatalf("expected heading in %q view", name)
		}
	}
}

func TestPlaceOrderClearsCart(t *testing.T) {
	engine, cart := testEngine(t)
	cart.Add(services.CartLine{ID: "1", Name: "Burger", PriceCents: 500}, 1)

	view, placed := engine.PlaceOrder()
	if !placed {
		t.Fatalf("expected order to be placed")
	}
	doc := parseHTML(t, view.HTML)
	if doc.Find(".order-confirmation").Length() != 1 {
		t.Fatalf("expected confirmation view")
	}
	if len(cart.Get()) != 0 {
		t.Fatalf("expected cart to be cleared")
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	engine, _ := testEngine(t)

	view, placed := engine.PlaceOrder()
	if placed {
		t.Fatalf("expected empty cart to reject checkout")
	}
	doc := parseHTML(t, view.HTML)
	if doc.Find(".order-empty").Length() != 1 {
		t.Fatalf("expected empty-state view on rejected checkout")
	}
}
