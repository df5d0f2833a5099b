// Package cart holds a session's shopping cart and derives its checkout totals.
//
// A Cart is owned by one session and is not safe for concurrent use;
// SessionStore implementations serialize access per session.
package cart

import (
	"encoding/json"
	"slices"

	"github.com/shopspring/decimal"
)

// LineItem is one product and its quantity. Name, Description and Price are
// copied from the catalog when the item is first added and are not refreshed.
type LineItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Snapshot is the state handed to subscribers after every mutation.
type Snapshot struct {
	Items      []LineItem
	TotalItems int
	TotalPrice decimal.Decimal
}

// Cart holds at most one line item per product id, in insertion order.
type Cart struct {
	items       []LineItem
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts item into the cart. A non-positive quantity counts as 1.
// Adding an id that is already present increases its quantity and keeps the original snapshot.
func (c *Cart) Add(item LineItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if i := c.index(item.ID); i >= 0 {
		c.items[i].Quantity += item.Quantity
	} else {
		c.items = append(c.items, item)
	}
	c.notify()
}

// Remove deletes the line item with the given id. Absent ids are ignored.
func (c *Cart) Remove(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.notify()
}

// UpdateQuantity sets the quantity of id. A quantity of zero or less removes the item.
// Absent ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	i := c.index(id)
	if i < 0 {
		return
	}
	c.items[i].Quantity = quantity
	c.notify()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.notify()
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	return append(make([]LineItem, 0, len(c.items)), c.items...)
}

// Contains reports whether a line item with id is present.
func (c *Cart) Contains(id string) bool {
	return c.index(id) >= 0
}

// TotalItems returns the sum of all quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice returns the exact sum of price times quantity. No rounding is applied.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Snapshot returns the current items and aggregates.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

// Subscribe registers fn to be called after every mutation. The returned function unsubscribes.
func (c *Cart) Subscribe(fn func(Snapshot)) (cancel func()) {
	if c.subscribers == nil {
		c.subscribers = make(map[int]func(Snapshot))
	}
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() { delete(c.subscribers, id) }
}

func (c *Cart) notify() {
	if len(c.subscribers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.subscribers {
		fn(snap)
	}
}

func (c *Cart) index(id string) int {
	return slices.IndexFunc(c.items, func(it LineItem) bool { return it.ID == id })
}

type cartJSON struct {
	Items []LineItem `json:"items"`
}

// MarshalJSON persists the line items only; subscribers are not serialized.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{Items: c.Items()})
}

// UnmarshalJSON replaces the line items without notifying subscribers.
// Entries repeating an id are merged and non-positive quantities are dropped.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.items = nil
	for _, it := range raw.Items {
		if it.Quantity <= 0 {
			continue
		}
		if i := c.index(it.ID); i >= 0 {
			c.items[i].Quantity += it.Quantity
			continue
		}
		c.items = append(c.items, it)
	}
	return nil
}
