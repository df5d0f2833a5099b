// Package catalog filters, sorts and derives the storefront view of a product list.
// It performs no I/O and never mutates its input.
package catalog

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AllCategories is the sentinel category that disables category filtering.
const AllCategories = "All"

// Product is a catalog record as the storefront displays it.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	LongDescription string          `json:"longDescription,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Stock           int             `json:"stock"`
	Image           string          `json:"image,omitempty"`
	Ingredients     []string        `json:"ingredients,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// pricePlaces is the number of decimals a price is rendered with.
const pricePlaces = 2

// MarshalJSON renders Price with two decimals, e.g. "8.00", matching the cart totals.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain: plain(p), Price: p.Price.StringFixed(pricePlaces)})
}

// Criteria selects and orders products. The zero value matches every product in input order.
type Criteria struct {
	Category string           `json:"category"`
	MinPrice *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	SortBy   SortOrder        `json:"sortBy"`
}

// Bounds is an inclusive price range.
type Bounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// View is the filtered listing together with the data needed to render its controls.
// Criteria echoes the requested filters; Controls holds the same range clamped
// into Bounds for the price sliders.
type View struct {
	Count      int       `json:"count"`
	Categories []string  `json:"categories"`
	Bounds     Bounds    `json:"bounds"`
	Controls   Bounds    `json:"controls"`
	Criteria   Criteria  `json:"criteria"`
	Products   []Product `json:"products"`
}

var (
	emptyMin = decimal.Zero
	emptyMax = decimal.NewFromInt(100)
)

// Apply returns the products matching c, ordered by c.SortBy.
// Missing price bounds default to PriceBounds(products).
func Apply(products []Product, c Criteria) []Product {
	bounds := PriceBounds(products)
	minPrice, maxPrice := bounds.Min, bounds.Max
	if c.MinPrice != nil {
		minPrice = *c.MinPrice
	}
	if c.MaxPrice != nil {
		maxPrice = *c.MaxPrice
	}

	filterByCategory := c.Category != "" && c.Category != AllCategories
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filterByCategory && p.Category != c.Category {
			continue
		}
		if p.Price.LessThan(minPrice) || p.Price.GreaterThan(maxPrice) {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, c.SortBy)
	return out
}

// Categories lists the distinct categories in first-occurrence order, prefixed with AllCategories.
func Categories(products []Product) []string {
	cats := []string{AllCategories}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	return cats
}

// PriceBounds returns the floor of the lowest and the ceiling of the highest price.
// An empty list yields 0..100.
func PriceBounds(products []Product) Bounds {
	if len(products) == 0 {
		return Bounds{Min: emptyMin, Max: emptyMax}
	}
	lo, hi := products[0].Price, products[0].Price
	for _, p := range products[1:] {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}
	return Bounds{Min: lo.Floor(), Max: hi.Ceil()}
}

// ClampRange resolves optional price selectors against bounds so that both lie inside
// the bounds and min never exceeds max. It positions controls and is not used for filtering.
func ClampRange(bounds Bounds, minPrice, maxPrice *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	lo, hi := bounds.Min, bounds.Max
	if minPrice != nil {
		lo = clamp(*minPrice, bounds)
	}
	if maxPrice != nil {
		hi = clamp(*maxPrice, bounds)
	}
	if lo.GreaterThan(hi) {
		lo = hi
	}
	return lo, hi
}

func clamp(v decimal.Decimal, b Bounds) decimal.Decimal {
	return decimal.Min(decimal.Max(v, b.Min), b.Max)
}

// NewView applies c as given and collects the listing controls.
// A range no price falls into, including min above max, yields no products.
func NewView(products []Product, c Criteria) View {
	bounds := PriceBounds(products)
	lo, hi := ClampRange(bounds, c.MinPrice, c.MaxPrice)
	if c.MinPrice == nil {
		c.MinPrice = &bounds.Min
	}
	if c.MaxPrice == nil {
		c.MaxPrice = &bounds.Max
	}
	if c.Category == "" {
		c.Category = AllCategories
	}
	if c.SortBy == "" {
		c.SortBy = SortNewest
	}
	filtered := Apply(products, c)
	return View{
		Count:      len(filtered),
		Categories: Categories(products),
		Bounds:     bounds,
		Controls:   Bounds{Min: lo, Max: hi},
		Criteria:   c,
		Products:   filtered,
	}
}

// Find returns the product with the given id.
func Find(products []Product, id string) (Product, bool) {
	i := slices.IndexFunc(products, func(p Product) bool { return p.ID == id })
	if i < 0 {
		return Product{}, false
	}
	return products[i], true
}
