package textutil

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Beef Wellington":     "beef-wellington",
		"  Fish & Chips!  ":   "fish-chips",
		"Crème Brûlée":        "creme-brulee",
		"--already-sluggy--":  "already-sluggy",
		"MixedCASE 123":       "mixedcase-123",
		"":                    "",
		"!!!":                 "",
		"Pasta///Carbonara":   "pasta-carbonara",
		"Miso   Ramen  Bowl ": "miso-ramen-bowl",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{
		0:     "$0.00",
		1120:  "$11.20",
		200:   "$2.00",
		5:     "$0.05",
		-350:  "-$3.50",
		1600:  "$16.00",
		13550: "$135.50",
	}
	for cents, want := range cases {
		if got := FormatMoney(cents); got != want {
			t.Fatalf("FormatMoney(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestTruncateCollapsesWhitespaceAndAppendsEllipsis(t *testing.T) {
	got := Truncate("Brown  the\tbeef.\n Add   stock", 90)
	if got != "Brown the beef. Add stock..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestTruncateCutsLongText(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcde "
	}
	got := Truncate(long, 10)
	if got != "abcde abcd..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestTruncateAlwaysAppendsSuffix(t *testing.T) {
	// The suffix lands even when nothing was cut.
	if got := Truncate("short", 90); got != "short..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
