// Package catalog turns rows of an Amazon product sheet into curatedProducts
// entries for the programmatic guide configs.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	Currency = "EUR"
	Merchant = "Amazon"
)

var (
	// ErrIncompleteRow marks rows without an image or affiliate URL. They are skipped silently.
	ErrIncompleteRow = errors.New("row has no image or affiliate url")
	// ErrNoASIN marks rows whose affiliate URL carries no /dp/<ASIN> segment.
	ErrNoASIN = errors.New("could not extract ASIN")
	// ErrInvalidPrice is returned when price text is not numeric after comma substitution.
	ErrInvalidPrice = errors.New("invalid price")
)

var asinPattern = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)

// Row is one record of the product sheet.
type Row struct {
	ImageURL     string
	PriceText    string
	AffiliateURL string
}

// Product is a curated product ready to be rendered.
type Product struct {
	ASIN          string
	Title         string
	Price         float64
	PriceText     string
	Currency      string
	Image         string
	AffiliateLink string
	Merchant      string
	Tier          Tier
	Reason        string
}

// Tier is the price bracket a product falls into.
type Tier int

const (
	Budget Tier = iota
	Popular
	MidRange
	Premium
)

func (t Tier) String() string {
	switch t {
	case Budget:
		return "budget"
	case Popular:
		return "popular"
	case MidRange:
		return "mid-range"
	case Premium:
		return "premium"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// TierFor buckets a price into half-open intervals [0,13), [13,20), [20,30), [30,inf).
// Anything that is not below a boundary (NaN included) lands in Premium.
func TierFor(price float64) Tier {
	switch {
	case price < 13:
		return Budget
	case price < 20:
		return Popular
	case price < 30:
		return MidRange
	default:
		return Premium
	}
}

// Reason returns the display sentence for a tier, quoting the price as written in the sheet.
func (t Tier) Reason(priceText string) string {
	switch t {
	case Budget:
		return fmt.Sprintf("Budget optie voor €%s - perfect voor kleine cadeaus", priceText)
	case Popular:
		return fmt.Sprintf("Populaire keuze voor €%s - goede prijs-kwaliteit", priceText)
	case MidRange:
		return fmt.Sprintf("Mid-range voor €%s - uitstekende features", priceText)
	default:
		return fmt.Sprintf("Premium leeslamp voor €%s - topkwaliteit", priceText)
	}
}

// ExtractASIN returns the first 10-character code following /dp/ in url.
func ExtractASIN(url string) (string, bool) {
	match := asinPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ParsePrice converts sheet price text such as "11,95" to 11.95.
// Commas are replaced with periods as a plain string substitution.
// Hexadecimal literals are rejected.
func ParsePrice(text string) (float64, error) {
	normalized := strings.ReplaceAll(text, ",", ".")
	if digits := strings.TrimLeft(normalized, "+-"); len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	price, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		// Out-of-range values round to ±Inf or zero.
		if errors.Is(err, strconv.ErrRange) {
			return price, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	return price, nil
}

// FormatPrice renders a price the way the guide configs store it: shortest
// round-trip digits, always with a decimal point ("12.0", "15.5"), switching to
// exponent form outside [1e-4, 1e16).
func FormatPrice(price float64) string {
	switch {
	case math.IsNaN(price):
		return "nan"
	case math.IsInf(price, 1):
		return "inf"
	case math.IsInf(price, -1):
		return "-inf"
	}

	abs := math.Abs(price)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(price, 'e', -1, 64)
	}

	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Title builds the product title from the label and ASIN.
func Title(label, asin string) string {
	return label + " " + asin
}

// Curate derives a product from one row. It returns ErrIncompleteRow or
// ErrNoASIN for rows that should be skipped and ErrInvalidPrice when the
// price cannot be parsed.
func Curate(row Row, label string) (Product, error) {
	image := strings.TrimSpace(row.ImageURL)
	priceText := strings.TrimSpace(row.PriceText)
	affiliate := strings.TrimSpace(row.AffiliateURL)

	if image == "" || affiliate == "" {
		return Product{}, ErrIncompleteRow
	}

	asin, ok := ExtractASIN(affiliate)
	if !ok {
		return Product{}, &ASINError{URL: affiliate}
	}

	price, err := ParsePrice(priceText)
	if err != nil {
		return Product{}, err
	}

	tier := TierFor(price)
	return Product{
		ASIN:          asin,
		Title:         Title(label, asin),
		Price:         price,
		PriceText:     priceText,
		Currency:      Currency,
		Image:         image,
		AffiliateLink: affiliate,
		Merchant:      Merchant,
		Tier:          tier,
		Reason:        tier.Reason(priceText),
	}, nil
}

// ASINError reports an affiliate URL without an ASIN. It matches ErrNoASIN.
type ASINError struct {
	URL string
}

func (e *ASINError) Error() string {
	return fmt.Sprintf("%s from %s", ErrNoASIN, e.URL)
}

func (e *ASINError) Unwrap() error { return ErrNoASIN }

// Warning is the diagnostic line written for the skipped row.
func (e *ASINError) Warning() string {
	return fmt.Sprintf("// Warning: Could not extract ASIN from: %s...", truncateRunes(e.URL, 50))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
