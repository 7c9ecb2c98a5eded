package spa

import "testing"

func TestParseFragmentDefaultsToHome(t *testing.T) {
	for _, fragment := range []string{"", "#", "#/", "//", "  "} {
		route := ParseFragment(fragment)
		if route.Name != RouteHome {
			t.Fatalf("ParseFragment(%q).Name = %q, want home", fragment, route.Name)
		}
		if len(route.Params) != 0 {
			t.Fatalf("ParseFragment(%q) unexpected params %v", fragment, route.Params)
		}
	}
}

func TestParseFragmentPathAndParams(t *testing.T) {
	route := ParseFragment("#/product/52772")
	if route.Name != RouteProduct {
		t.Fatalf("unexpected route name %q", route.Name)
	}
	if route.Param(0) != "52772" {
		t.Fatalf("unexpected param %q", route.Param(0))
	}
	if route.Param(1) != "" {
		t.Fatalf("expected empty out-of-range param, got %q", route.Param(1))
	}
}

func TestParseFragmentDropsEmptySegments(t *testing.T) {
	route := ParseFragment("#//product//52772/")
	if route.Name != RouteProduct || route.Param(0) != "52772" {
		t.Fatalf("unexpected route %+v", route)
	}
}

func TestParseFragmentQueryLastOccurrenceWins(t *testing.T) {
	route := ParseFragment("#/home?q=pizza&q=burger&cat=cat-beef")
	if route.Query["q"] != "burger" {
		t.Fatalf("expected last occurrence to win, got %q", route.Query["q"])
	}
	if route.Query["cat"] != "cat-beef" {
		t.Fatalf("unexpected cat %q", route.Query["cat"])
	}
}

func TestParseFragmentDecodesQueryValues(t *testing.T) {
	route := ParseFragment("#/home?q=fish+%26+chips")
	if route.Query["q"] != "fish & chips" {
		t.Fatalf("expected decoded query, got %q", route.Query["q"])
	}
}

func TestEncodeFragmentRoundTrip(t *testing.T) {
	query := map[string]string{"q": "burger", "cat": "cat-pizza"}
	fragment := EncodeFragment(RouteHome, query)

	route := ParseFragment(fragment)
	if route.Name != RouteHome {
		t.Fatalf("unexpected route name %q", route.Name)
	}
	for key, want := range query {
		if got := route.Query[key]; got != want {
			t.Fatalf("round trip lost %q: got %q, want %q", key, got, want)
		}
	}
}

func TestEncodeFragmentDeterministicOrdering(t *testing.T) {
	query := map[string]string{"b": "2", "a": "1"}
	if got := EncodeFragment(RouteHome, query); got != "#/home?a=1&b=2" {
		t.Fatalf("unexpected fragment %q", got)
	}
	if got := EncodeFragment(RouteOrder, nil); got != "#/order" {
		t.Fatalf("unexpected fragment %q", got)
	}
}
