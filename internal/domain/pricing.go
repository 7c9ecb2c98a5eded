package domain

const (
	// MinPriceCents is the lowest price PriceFromID can produce.
	MinPriceCents int64 = 500
	// MaxPriceCents is the highest price PriceFromID can produce.
	MaxPriceCents int64 = 1600

	defaultPriceSeed = 10
)

// PriceFromID derives a deterministic pseudo-price from a product id. The
// last two characters of the id are parsed as an integer n (10 when the id
// is empty or unparseable); the price is 5 + (n mod 11) dollars plus
// (n mod 10) * 10 cents, always within [MinPriceCents, MaxPriceCents].
func PriceFromID(id string) int64 {
	seed := defaultPriceSeed
	if n, ok := lastTwoDigits(id); ok {
		seed = n
	}
	return 500 + int64(seed%11)*100 + int64(seed%10)*10
}

func lastTwoDigits(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	start := len(id) - 2
	if start < 0 {
		start = 0
	}
	n := 0
	for _, r := range id[start:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
