// Package geoip wraps the third-party ipapi.co lookup consumed when
// enriching visit records. Lookups are strictly best-effort: any failure
// yields an empty location, never an error the caller must branch on.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quickbite/storefront/internal/domain"
)

const defaultTimeout = 3 * time.Second

// Client performs geolocation lookups against an ipapi-compatible endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// ClientDeps wires the HTTP client and endpoint for lookups.
type ClientDeps struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewClient constructs a lookup client enforcing dependency validation.
func NewClient(deps ClientDeps) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(deps.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("geoip client: base url is required")
	}

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		timeout: timeout,
	}, nil
}

// lookupResponse tolerates both ipapi field spellings for region and
// coordinate attributes.
type lookupResponse struct {
	City        string          `json:"city"`
	Region      string          `json:"region"`
	RegionCode  string          `json:"region_code"`
	CountryName string          `json:"country_name"`
	Country     string          `json:"country"`
	Latitude    json.RawMessage `json:"latitude"`
	Lat         json.RawMessage `json:"lat"`
	Longitude   json.RawMessage `json:"longitude"`
	Lon         json.RawMessage `json:"lon"`
	Timezone    string          `json:"timezone"`
}

// Lookup resolves the approximate location of an IP. Loopback and empty
// addresses skip the network round trip; every failure path returns a
// zero-value location.
func (c *Client) Lookup(ctx context.Context, ip string) domain.GeoLocation {
	if c == nil {
		return domain.GeoLocation{}
	}

	ip = strings.TrimSpace(ip)
	if ip == "" || ip == "127.0.0.1" {
		return domain.GeoLocation{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.GeoLocation{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.GeoLocation{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoLocation{}
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoLocation{}
	}

	return domain.GeoLocation{
		City:      decoded.City,
		Region:    firstNonEmpty(decoded.Region, decoded.RegionCode),
		Country:   firstNonEmpty(decoded.CountryName, decoded.Country),
		Latitude:  rawToString(decoded.Latitude, decoded.Lat),
		Longitude: rawToString(decoded.Longitude, decoded.Lon),
		Timezone:  decoded.Timezone,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// rawToString renders the first present JSON value as a plain string,
// unquoting string-encoded coordinates.
func rawToString(candidates ...json.RawMessage) string {
	for _, raw := range candidates {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var asString string
		if err := json.Unmarshal(raw, &asString); err == nil {
			return asString
		}
		return string(raw)
	}
	return ""
}
