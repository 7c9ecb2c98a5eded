package domain

import "testing"

func TestPriceFromIDDeterministicAndBounded(t *testing.T) {
	ids := []string{"52772", "53281", "1", "99", "00", "abc12", "7", ""}
	for _, id := range ids {
		first := PriceFromID(id)
		second := PriceFromID(id)
		if first != second {
			t.Fatalf("price for %q not deterministic: %d vs %d", id, first, second)
		}
		if first < MinPriceCents || first > MaxPriceCents {
			t.Fatalf("price for %q out of range: %d", id, first)
		}
		if first%10 != 0 {
			t.Fatalf("price for %q not a whole number of 10-cent steps: %d", id, first)
		}
	}
}

func TestPriceFromIDUsesLastTwoDigits(t *testing.T) {
	// id ending in 72: 5 + 72%11 + 72%10*0.1 = 5 + 6 + 0.2 = 11.20
	if got := PriceFromID("52772"); got != 1120 {
		t.Fatalf("expected 1120 for 52772, got %d", got)
	}
	// id ending in 81: 5 + 4 + 0.1 = 9.10
	if got := PriceFromID("53281"); got != 910 {
		t.Fatalf("expected 910 for 53281, got %d", got)
	}
}

func TestPriceFromIDDefaultsSeed(t *testing.T) {
	// Unparseable and empty ids fall back to seed 10: 5 + 10 + 0 = 15.00
	if got := PriceFromID(""); got != 1500 {
		t.Fatalf("expected default price 1500 for empty id, got %d", got)
	}
	if got := PriceFromID("meal-xx"); got != 1500 {
		t.Fatalf("expected default price 1500 for unparseable id, got %d", got)
	}
	// Single digit ids parse as-is.
	if got := PriceFromID("7"); got != 1270 {
		t.Fatalf("expected 1270 for id 7, got %d", got)
	}
}

func TestCartLineLineTotal(t *testing.T) {
	line := CartLine{ID: "52772", PriceCents: 500, Qty: 3}
	if got := line.LineTotalCents(); got != 1500 {
		t.Fatalf("expected 1500, got %d", got)
	}
	line.Qty = 0
	if got := line.LineTotalCents(); got != 0 {
		t.Fatalf("expected 0 for non-positive qty, got %d", got)
	}
}
