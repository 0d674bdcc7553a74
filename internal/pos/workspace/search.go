package workspace

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// SearchKind classifies a smart-search outcome.
type SearchKind int

const (
	// SearchNone means no product matched.
	SearchNone SearchKind = iota
	// SearchBarcode is an exact scanner hit; the product is added directly.
	SearchBarcode
	// SearchPrice is a single price hit; the product is selected.
	SearchPrice
	// SearchPriceMultiple lists the products sharing the typed price without
	// selecting one.
	SearchPriceMultiple
	// SearchExact is an exact name or barcode hit on a shorter term.
	SearchExact
)

// SearchResult carries the outcome plus the matched product(s).
type SearchResult struct {
	Kind    SearchKind
	Product *types.Product
	Matches []types.Product
}

var priceTolerance = decimal.NewFromFloat(0.01)

// SmartSearch resolves a typed or scanned term against the loaded catalog.
//
// Precedence: a numeric term of eight or more digits is treated as a barcode;
// otherwise a parseable number is matched against list and sale prices within
// one cent, with a single hit auto-selected and several hits listed; otherwise
// only an exact name or barcode match counts. Substring matches are the
// browse filter's job, not search's.
func SmartSearch(products []types.Product, term string) SearchResult {
	term = strings.TrimSpace(term)
	if term == "" {
		return SearchResult{Kind: SearchNone}
	}

	if isBarcode(term) {
		for i := range products {
			if products[i].Barcode == term {
				return SearchResult{Kind: SearchBarcode, Product: &products[i]}
			}
		}
		return SearchResult{Kind: SearchNone}
	}

	if price, ok := parsePrice(term); ok {
		var matches []types.Product
		for i := range products {
			if priceMatches(products[i], price) {
				matches = append(matches, products[i])
			}
		}
		switch len(matches) {
		case 0:
			// Fall through to the exact matcher; "99" could be a name.
		case 1:
			return SearchResult{Kind: SearchPrice, Product: &matches[0], Matches: matches}
		default:
			return SearchResult{Kind: SearchPriceMultiple, Matches: matches}
		}
	}

	for i := range products {
		if products[i].Name.Matches(term) || strings.EqualFold(products[i].Barcode, term) {
			return SearchResult{Kind: SearchExact, Product: &products[i]}
		}
	}
	return SearchResult{Kind: SearchNone}
}

// FilterProducts narrows the browse grid: the term matches name or barcode as
// a substring, or the effective price when it parses as a number. A non-nil
// category further restricts the list.
func FilterProducts(products []types.Product, term string, categoryID uuid.UUID) []types.Product {
	term = strings.TrimSpace(term)
	price, isPrice := parsePrice(term)

	var out []types.Product
	for _, p := range products {
		if categoryID != uuid.Nil && p.CategoryID != categoryID {
			continue
		}
		if term != "" {
			match := p.Name.Contains(term) ||
				strings.Contains(strings.ToLower(p.Barcode), strings.ToLower(term))
			if !match && isPrice {
				match = priceMatches(p, price)
			}
			if !match {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// priceMatches checks price against the product's list price and, while on
// sale, the sale price, within one cent of either.
func priceMatches(p types.Product, price decimal.Decimal) bool {
	if p.Price.Sub(price).Abs().LessThanOrEqual(priceTolerance) {
		return true
	}
	return p.OnSale && p.SalePrice.IsPositive() &&
		p.SalePrice.Sub(price).Abs().LessThanOrEqual(priceTolerance)
}

// isBarcode reports whether term looks like a scanner read: all digits, eight
// or more of them.
func isBarcode(term string) bool {
	if len(term) < 8 {
		return false
	}
	for _, r := range term {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parsePrice(term string) (decimal.Decimal, bool) {
	if _, err := strconv.ParseFloat(term, 64); err != nil {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(term)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, false
	}
	return price, true
}
