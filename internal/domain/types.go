package domain

import (
	"time"
)

// Product is one orderable meal built from the embedded dataset. Products
// are constructed once by the catalog service and never mutated.
type Product struct {
	ID          string
	Name        string
	Category    string
	ImageURL    string
	Description string
	// PriceCents is derived deterministically from the product id.
	PriceCents int64
}

// CartLine is one entry in the shopping cart. Name, price, and image are
// snapshotted at add time; later catalog changes do not affect existing
// lines.
type CartLine struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
	ImageURL   string `json:"img"`
	Qty        int    `json:"qty"`
}

// LineTotalCents returns the extended price of the line.
func (l CartLine) LineTotalCents() int64 {
	if l.Qty <= 0 {
		return 0
	}
	return l.PriceCents * int64(l.Qty)
}

// OrderTotals is the render-time pricing breakdown of a cart. It is never
// persisted.
type OrderTotals struct {
	SubtotalCents int64
	DeliveryCents int64
	TaxCents      int64
	TotalCents    int64
}

// GeoLocation carries the best-effort geolocation attributes of a visitor.
// Absent fields stay empty strings.
type GeoLocation struct {
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Timezone  string `json:"timezone"`
}

// VisitRecord is one logged access event, appended to the visit log file.
type VisitRecord struct {
	ID        string `json:"id,omitempty"`
	IP        string `json:"ip"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Timezone  string `json:"timezone"`
	UserAgent string `json:"userAgent"`
	Time      string `json:"time"`
}

// VisitSample carries the request attributes the visit service records.
type VisitSample struct {
	IP        string
	UserAgent string
}

// Theme enumerates the persisted theme preference values.
type Theme string

const (
	// ThemeLight is the default presentation theme.
	ThemeLight Theme = "light"
	// ThemeDark is the alternate presentation theme.
	ThemeDark Theme = "dark"
)

// Timestamp formats a time in the ISO-8601 form the visit log stores.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
