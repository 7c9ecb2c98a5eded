package spa

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"
	"sync/atomic"

	"github.com/microcosm-cc/bluemonday"

	"github.com/quickbite/storefront/internal/platform/textutil"
	"github.com/quickbite/storefront/internal/services"
)

const heroSlideCount = 3

// View is a rendered storefront fragment. Generation increases with every
// dispatch; asynchronous consumers compare it against CurrentGeneration
// before applying late results to the page.
type View struct {
	Title      string
	HTML       string
	Generation uint64
}

// EngineDeps wires the storefront engine inputs.
type EngineDeps struct {
	Catalog services.CatalogService
	Cart    services.CartService
	Pricer  services.CartPricer
	Logger  func(context.Context, string, map[string]any)
}

// Engine renders storefront views from catalog and cart state.
type Engine struct {
	catalog    services.CatalogService
	cart       services.CartService
	pricer     services.CartPricer
	logger     func(context.Context, string, map[string]any)
	sanitizer  *bluemonday.Policy
	renderers  map[string]func(Route) (string, string)
	generation atomic.Uint64
}

// NewEngine constructs the storefront engine enforcing dependency
// validation.
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Catalog == nil {
		return nil, errors.New("spa engine: catalog is required")
	}
	if deps.Cart == nil {
		return nil, errors.New("spa engine: cart is required")
	}
	if deps.Pricer == nil {
		return nil, errors.New("spa engine: pricer is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	e := &Engine{
		catalog:   deps.Catalog,
		cart:      deps.Cart,
		pricer:    deps.Pricer,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
	e.renderers = map[string]func(Route) (string, string){
		RouteHome:    e.renderHome,
		RouteProduct: e.renderProduct,
		RouteOrder:   e.renderOrder,
		RouteAbout:   e.renderAbout,
		RouteContact: e.renderContact,
		RouteBook:    e.renderBook,
	}
	return e, nil
}

// Dispatch renders the view for a route. Unknown route names fall back to
// the home renderer. Dispatch is idempotent per fragment; re-rendering the
// same route mutates nothing but the generation counter.
func (e *Engine) Dispatch(route Route) View {
	renderer, ok := e.renderers[route.Name]
	if !ok {
		renderer = e.renderHome
	}
	title, html := renderer(route)
	return View{
		Title:      title,
		HTML:       html,
		Generation: e.generation.Add(1),
	}
}

// CurrentGeneration reports the generation of the most recent dispatch.
func (e *Engine) CurrentGeneration() uint64 {
	return e.generation.Load()
}

// PlaceOrder completes the checkout flow: an empty cart is rejected, a
// non-empty cart is cleared and the confirmation view returned. The caller
// redirects to home afterwards.
func (e *Engine) PlaceOrder() (View, bool) {
	lines := e.cart.Get()
	if len(lines) == 0 {
		return e.Dispatch(Route{Name: RouteOrder}), false
	}

	e.cart.Clear()
	e.logger(context.Background(), "order.placed", map[string]any{
		"lines": len(lines),
	})
	html := e.execute("confirmation", nil)
	return View{
		Title:      "Order placed | QuickBite",
		HTML:       html,
		Generation: e.generation.Add(1),
	}, true
}

type productCard struct {
	ID          string
	Name        string
	ImageURL    string
	Description string
	Price       string
}

type categoryTab struct {
	Name   string
	Slug   string
	Active bool
}

type categorySection struct {
	Name     string
	Slug     string
	Products []productCard
}

type homeState struct {
	Query     string
	Slides    []productCard
	Tabs      []categoryTab
	Sections  []categorySection
	NoResults bool
}

func (e *Engine) renderHome(route Route) (string, string) {
	query := strings.TrimSpace(route.Query["q"])
	activeSlug := strings.TrimPrefix(strings.TrimSpace(route.Query["cat"]), "cat-")

	state := homeState{
		Query:  e.sanitizer.Sanitize(query),
		Slides: cards(e.catalog.Featured(heroSlideCount)),
	}

	for _, category := range e.catalog.Categories() {
		slug := textutil.Slugify(category)
		state.Tabs = append(state.Tabs, categoryTab{
			Name:   category,
			Slug:   slug,
			Active: slug == activeSlug,
		})
	}

	if query != "" {
		results := e.catalog.Search(query)
		if len(results) == 0 {
			state.NoResults = true
		} else {
			state.Sections = append(state.Sections, categorySection{
				Name:     "Search results",
				Slug:     "search-results",
				Products: cards(results),
			})
		}
	} else {
		for _, category := range e.catalog.Categories() {
			slug := textutil.Slugify(category)
			if activeSlug != "" && slug != activeSlug {
				continue
			}
			products := e.catalog.ProductsInCategory(category)
			if len(products) == 0 {
				continue
			}
			state.Sections = append(state.Sections, categorySection{
				Name:     category,
				Slug:     slug,
				Products: cards(products),
			})
		}
	}

	return "QuickBite | Order food online", e.execute("home", state)
}

type productState struct {
	Found   bool
	Product productCard
}

func (e *Engine) renderProduct(route Route) (string, string) {
	// The id travels as either a path segment or an id query parameter.
	id := route.Param(0)
	if id == "" {
		id = strings.TrimSpace(route.Query["id"])
	}
	product, ok := e.catalog.Product(id)
	if !ok {
		return "Not found | QuickBite", e.execute("product", productState{})
	}
	return product.Name + " | QuickBite", e.execute("product", productState{
		Found:   true,
		Product: card(product),
	})
}

type orderLine struct {
	ID       string
	Name     string
	ImageURL string
	Price    string
	Qty      int
	Total    string
}

type orderState struct {
	Lines    []orderLine
	Subtotal string
	Delivery string
	Tax      string
	Total    string
	ShowTax  bool
}

func (e *Engine) renderOrder(Route) (string, string) {
	lines := e.cart.Get()
	totals := e.pricer.Totals(lines)

	state := orderState{
		Subtotal: textutil.FormatMoney(totals.SubtotalCents),
		Delivery: textutil.FormatMoney(totals.DeliveryCents),
		Tax:      textutil.FormatMoney(totals.TaxCents),
		Total:    textutil.FormatMoney(totals.TotalCents),
		ShowTax:  totals.TaxCents > 0,
	}
	for _, line := range lines {
		state.Lines = append(state.Lines, orderLine{
			ID:       line.ID,
			Name:     line.Name,
			ImageURL: line.ImageURL,
			Price:    textutil.FormatMoney(line.PriceCents),
			Qty:      line.Qty,
			Total:    textutil.FormatMoney(line.LineTotalCents()),
		})
	}

	return "Your order | QuickBite", e.execute("order", state)
}

func (e *Engine) renderAbout(Route) (string, string) {
	return "About us | QuickBite", e.execute("about", nil)
}

func (e *Engine) renderContact(Route) (string, string) {
	return "Contact | QuickBite", e.execute("contact", nil)
}

func (e *Engine) renderBook(Route) (string, string) {
	return "Book a table | QuickBite", e.execute("book", nil)
}

func (e *Engine) execute(name string, state any) string {
	var buf bytes.Buffer
	if err := viewTemplates.ExecuteTemplate(&buf, name, state); err != nil {
		e.logger(context.Background(), "view.render.failed", map[string]any{
			"view":  name,
			"error": err.Error(),
		})
		return ""
	}
	return buf.String()
}

func card(p services.Product) productCard {
	return productCard{
		ID:          p.ID,
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Price:       textutil.FormatMoney(p.PriceCents),
	}
}

func cards(products []services.Product) []productCard {
	out := make([]productCard, 0, len(products))
	for _, p := range products {
		out = append(out, card(p))
	}
	return out
}

var viewTemplates = template.Must(template.New("views").Parse(`
{{define "card"}}<article class="product-card" data-id="{{.ID}}">
  <img src="{{.ImageURL}}" alt="{{.Name}}">
  <h3>{{.Name}}</h3>
  <p class="description">{{.Description}}</p>
  <div class="card-footer">
    <span class="price">{{.Price}}</span>
    <a class="details-link" href="#/product/{{.ID}}">View</a>
    <button class="add-to-cart" data-id="{{.ID}}">Add to cart</button>
  </div>
</article>{{end}}

{{define "home"}}<section class="hero">
  <div class="hero-slides">{{range .Slides}}
    <div class="hero-slide" data-id="{{.ID}}">
      <img src="{{.ImageURL}}" alt="{{.Name}}">
      <h2>{{.Name}}</h2>
      <span class="price">{{.Price}}</span>
    </div>{{end}}
  </div>
</section>
<nav class="categories">{{range .Tabs}}
  <a id="cat-{{.Slug}}" class="category-btn{{if .Active}} active{{end}}" href="#/home?cat=cat-{{.Slug}}">{{.Name}}</a>{{end}}
</nav>
{{if .Query}}<p class="search-echo">Results for &quot;{{.Query}}&quot;</p>{{end}}
{{if .NoResults}}<p class="no-results">No dishes match your search.</p>{{end}}
{{range .Sections}}<section class="category-section" id="section-{{.Slug}}">
  <h2>{{.Name}}</h2>
  <div class="product-grid">{{range .Products}}{{template "card" .}}{{end}}</div>
</section>{{end}}{{end}}

{{define "product"}}{{if .Found}}<section class="product-detail" data-id="{{.Product.ID}}">
  <img src="{{.Product.ImageURL}}" alt="{{.Product.Name}}">
  <h1>{{.Product.Name}}</h1>
  <p class="description">{{.Product.Description}}</p>
  <span class="price">{{.Product.Price}}</span>
  <button class="add-to-cart" data-id="{{.Product.ID}}">Add to cart</button>
</section>{{else}}<section class="product-missing">
  <h1>Dish not found</h1>
  <p>The dish you are looking for is no longer on the menu.</p>
  <a href="#/home">Back to the menu</a>
</section>{{end}}{{end}}

{{define "order"}}{{if .Lines}}<section class="order">
  <ul class="order-lines">{{range .Lines}}
    <li class="order-line" data-id="{{.ID}}">
      <img src="{{.ImageURL}}" alt="{{.Name}}">
      <span class="name">{{.Name}}</span>
      <span class="unit-price">{{.Price}}</span>
      <div class="qty-controls">
        <button class="qty-dec" data-id="{{.ID}}">-</button>
        <span class="qty">{{.Qty}}</span>
        <button class="qty-inc" data-id="{{.ID}}">+</button>
      </div>
      <span class="line-total">{{.Total}}</span>
      <button class="remove-line" data-id="{{.ID}}">Remove</button>
    </li>{{end}}
  </ul>
  <dl class="order-totals">
    <dt>Subtotal</dt><dd class="subtotal">{{.Subtotal}}</dd>
    <dt>Delivery</dt><dd class="delivery">{{.Delivery}}</dd>
    {{if .ShowTax}}<dt>Tax</dt><dd class="tax">{{.Tax}}</dd>
    {{end}}<dt>Total</dt><dd class="total">{{.Total}}</dd>
  </dl>
  <button class="place-order">Place order</button>
</section>{{else}}<section class="order order-empty">
  <p>Your cart is empty. Head back to the menu to add something tasty.</p>
  <a href="#/home">Browse the menu</a>
</section>{{end}}{{end}}

{{define "confirmation"}}<section class="order-confirmation">
  <h1>Thank you!</h1>
  <p>Your order has been placed and is on its way.</p>
  <a href="#/home">Back to the menu</a>
</section>{{end}}

{{define "about"}}<section class="about">
  <h1>About QuickBite</h1>
  <p>QuickBite delivers honest food from local kitchens straight to your door.</p>
</section>{{end}}

{{define "contact"}}<section class="contact">
  <h1>Contact us</h1>
  <p>Email <a href="mailto:hello@quickbite.example">hello@quickbite.example</a> or call us between 9am and 9pm.</p>
</section>{{end}}

{{define "book"}}<section class="book">
  <h1>Book a table</h1>
  <p>Reservations open daily from 11am. Call ahead for parties of six or more.</p>
</section>{{end}}
`))
