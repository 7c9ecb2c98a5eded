// Package spa is the storefront engine: the fragment router, the view
// renderers, and the session state that together drive the single-page
// storefront. Everything here is pure with respect to HTTP; the handlers
// package exposes it over the wire.
package spa

import (
	"net/url"
	"sort"
	"strings"
)

// Route names dispatched by the storefront.
const (
	RouteHome    = "home"
	RouteProduct = "product"
	RouteOrder   = "order"
	RouteAbout   = "about"
	RouteContact = "contact"
	RouteBook    = "book"
)

// Route is a parsed location fragment. Params holds the positional path
// segments after the route name; Query holds the decoded query parameters
// with the last occurrence of a repeated key winning.
type Route struct {
	Name   string
	Params []string
	Query  map[string]string
}

// Param returns the positional parameter at index, or "" when absent.
func (r Route) Param(index int) string {
	if index < 0 || index >= len(r.Params) {
		return ""
	}
	return r.Params[index]
}

// ParseFragment decodes a location fragment such as "#/product/52772" or
// "#/home?q=burger". Parsing never fails: malformed input degrades to the
// home route.
func ParseFragment(fragment string) Route {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")

	path := fragment
	rawQuery := ""
	if idx := strings.Index(fragment, "?"); idx >= 0 {
		path = fragment[:idx]
		rawQuery = fragment[idx+1:]
	}

	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	route := Route{Name: RouteHome, Query: parseQuery(rawQuery)}
	if len(segments) > 0 {
		route.Name = segments[0]
		route.Params = segments[1:]
	}
	return route
}

// parseQuery decodes key=value pairs, keeping the last occurrence of a
// repeated key. Undecodable components are kept verbatim.
func parseQuery(rawQuery string) map[string]string {
	query := make(map[string]string)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		value := ""
		if idx := strings.Index(pair, "="); idx >= 0 {
			key = pair[:idx]
			value = pair[idx+1:]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		if key != "" {
			query[key] = value
		}
	}
	return query
}

// EncodeFragment builds a location fragment that ParseFragment decodes back
// to the same route. Query keys are emitted in sorted order so encoding is
// deterministic.
func EncodeFragment(name string, query map[string]string) string {
	var b strings.Builder
	b.WriteString("#/")
	b.WriteString(name)

	if len(query) > 0 {
		keys := make([]string, 0, len(query))
		for key := range query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		b.WriteByte('?')
		for i, key := range keys {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(query[key]))
		}
	}
	return b.String()
}
