package catalog

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder names an ordering of the catalog listing.
type SortOrder string

const (
	SortNewest       SortOrder = "newest"
	SortPriceLowHigh SortOrder = "priceLowHigh"
	SortPriceHighLow SortOrder = "priceHighLow"
	SortNameAZ       SortOrder = "nameAZ"
	SortNameZA       SortOrder = "nameZA"
)

var ErrUnknownSortOrder = errors.New("unknown sort order")

var sortOrders = []SortOrder{SortNewest, SortPriceLowHigh, SortPriceHighLow, SortNameAZ, SortNameZA}

// ParseSortOrder maps a query value to a SortOrder. Empty input is SortNewest.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortNewest, nil
	}
	if slices.Contains(sortOrders, SortOrder(s)) {
		return SortOrder(s), nil
	}
	return SortNewest, fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
}

// sortProducts orders ps in place. Unknown orders keep input order like SortNewest.
// All orderings are stable.
func sortProducts(ps []Product, order SortOrder) {
	switch order {
	case SortPriceLowHigh:
		slices.SortStableFunc(ps, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHighLow:
		slices.SortStableFunc(ps, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortNameAZ, SortNameZA:
		// collate.Collator is not safe for concurrent use.
		col := collate.New(language.English)
		sign := 1
		if order == SortNameZA {
			sign = -1
		}
		slices.SortStableFunc(ps, func(a, b Product) int {
			return sign * col.CompareString(a.Name, b.Name)
		})
	}
}
