// Package cart is the in-memory shopping cart of the storefront.
// A Cart is owned by one session and is not safe for concurrent use.
package cart

import (
	"bookstore-catalog/internal/domains/book/model"

	"github.com/shopspring/decimal"
)

// Line - one book in the cart. Title and Price are captured on the first
// add and are not refreshed when the catalog changes later.
type Line struct {
	BookID   int64           `json:"bookId"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal = Price * Quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Summary - totals for display. TotalCost is rounded to cents.
type Summary struct {
	TotalItems int             `json:"totalItems"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

// Cart keeps at most one line per book, in insertion order.
type Cart struct {
	lines []Line
	index map[int64]int
}

func New() *Cart {
	return &Cart{index: make(map[int64]int)}
}

// Add puts one copy of b in the cart: a new line with quantity 1, or +1 on
// the existing line for b.BookID.
func (c *Cart) Add(b model.Book) {
	if i, ok := c.index[b.BookID]; ok {
		c.lines[i].Quantity++
		return
	}
	c.index[b.BookID] = len(c.lines)
	c.lines = append(c.lines, Line{
		BookID:   b.BookID,
		Title:    b.Title,
		Price:    b.Price,
		Quantity: 1,
	})
}

// Remove drops the whole line for bookID whatever its quantity.
// Removing a book that is not in the cart is a no-op.
func (c *Cart) Remove(bookID int64) {
	i, ok := c.index[bookID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, bookID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].BookID] = j
	}
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity of bookID, 0 when absent.
func (c *Cart) Quantity(bookID int64) int {
	if i, ok := c.index[bookID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) Len() int { return len(c.lines) }

// Summary sums quantities and price*quantity without intermediate rounding.
func (c *Cart) Summary() Summary {
	total := decimal.Zero
	items := 0
	for _, l := range c.lines {
		items += l.Quantity
		total = total.Add(l.Subtotal())
	}
	return Summary{TotalItems: items, TotalCost: total.Round(2)}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[int64]int)
}
