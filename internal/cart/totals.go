package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

var (
	// TaxRate is applied to the subtotal at checkout.
	TaxRate = decimal.RequireFromString("0.10")

	totalMultiplier = decimal.NewFromInt(1).Add(TaxRate)
)

// displayPlaces is the number of decimal places prices are rounded to for display.
const displayPlaces = 2

// Summary holds the checkout totals derived from a cart. Values are exact;
// JSON output rounds them to two decimal places.
type Summary struct {
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// Summarize derives the checkout totals from the cart's current contents.
func Summarize(c *Cart) Summary {
	subtotal := c.TotalPrice()
	return Summary{
		Subtotal:  subtotal,
		Tax:       subtotal.Mul(TaxRate),
		Shipping:  decimal.Zero,
		Total:     subtotal.Mul(totalMultiplier),
		ItemCount: c.TotalItems(),
	}
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal  string `json:"subtotal"`
		Tax       string `json:"tax"`
		Shipping  string `json:"shipping"`
		Total     string `json:"total"`
		ItemCount int    `json:"itemCount"`
	}{
		Subtotal:  s.Subtotal.StringFixed(displayPlaces),
		Tax:       s.Tax.StringFixed(displayPlaces),
		Shipping:  s.Shipping.StringFixed(displayPlaces),
		Total:     s.Total.StringFixed(displayPlaces),
		ItemCount: s.ItemCount,
	})
}
