package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pizzaparty/backend-pizzeria/internal/money"
)

// ErrNotFound indicates the item has no line in the cart.
var ErrNotFound = errors.New("cart: item not in cart")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("cart: invalid input")

// PriceLookup supplies the current catalog unit price for an item. The
// catalog service satisfies this.
type PriceLookup interface {
	PriceOf(id string) (money.Money, error)
}

// Line is a derived view of one cart entry. Quantity is always at least
// one; a line that would drop to zero is removed instead of stored.
type Line struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

// Cart maps item identity to quantity and maintains the running total.
// Additions snapshot the unit price supplied at add time into the total;
// removals subtract whatever the catalog charges at removal time. When a
// customization changes the catalog price between the two, the totals
// drift exactly as the original till did. Every mutation either completes
// or leaves the cart untouched.
type Cart struct {
	mu     sync.Mutex
	prices PriceLookup
	qty    map[string]int
	order  []string
	total  money.Money
}

// New returns an empty cart that resolves removal prices through prices.
func New(prices PriceLookup) *Cart {
	return &Cart{prices: prices, qty: make(map[string]int)}
}

// Add increments the quantity for the item by one, initializing the line
// if absent, and grows the running total by unitPrice.
func (c *Cart) Add(id string, unitPrice money.Money) error {
	if id == "" {
		return fmt.Errorf("%w: item id required", ErrInvalidInput)
	}
	if unitPrice < 0 {
		return fmt.Errorf("%w: negative unit price", ErrInvalidInput)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.qty[id]; !ok {
		c.order = append(c.order, id)
	}
	c.qty[id]++
	c.total += unitPrice
	return nil
}

// RemoveOne decrements the quantity by one, deleting the line when it
// reaches zero, and shrinks the running total by the item's current
// catalog price.
func (c *Cart) RemoveOne(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	qty, ok := c.qty[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	price, err := c.prices.PriceOf(id)
	if err != nil {
		return fmt.Errorf("resolve unit price: %w", err)
	}
	if qty <= 1 {
		delete(c.qty, id)
		for i, existing := range c.order {
			if existing == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	} else {
		c.qty[id] = qty - 1
	}
	c.total -= price
	return nil
}

// Clear empties the cart and resets the total to exactly zero. Calling it
// on an empty cart is a no-op.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.qty = make(map[string]int)
	c.order = nil
	c.total = 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.qty) == 0
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Line{ItemID: id, Qty: c.qty[id]})
	}
	return out
}

// Total returns the running total.
func (c *Cart) Total() money.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
