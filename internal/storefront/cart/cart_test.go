package cart

import (
	"testing"

	"bookstore-catalog/internal/domains/book/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book(id int64, title, price string) model.Book {
	return model.Book{BookID: id, Title: title, Price: decimal.RequireFromString(price)}
}

func TestAdd_IncrementsExistingLine(t *testing.T) {
	c := New()
	b := book(1, "Emma", "10.00")

	c.Add(b)
	c.Add(b)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, c.Quantity(1))
}

func TestAdd_SnapshotsTitleAndPrice(t *testing.T) {
	c := New()
	b := book(1, "Emma", "10.00")
	c.Add(b)

	b.Title = "Emma (2nd ed.)"
	b.Price = decimal.RequireFromString("99.00")
	c.Add(b)

	line := c.Lines()[0]
	assert.Equal(t, "Emma", line.Title)
	assert.Equal(t, "10.00", line.Price.StringFixed(2))
	assert.Equal(t, 2, line.Quantity)
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(book(1, "A", "1.00"))
	c.Add(book(2, "B", "2.00"))
	c.Add(book(2, "B", "2.00"))
	c.Add(book(3, "C", "3.00"))

	c.Remove(99)
	assert.Equal(t, 3, c.Len(), "absent id is a no-op")

	c.Remove(2)
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].BookID)
	assert.Equal(t, int64(3), lines[1].BookID)
	assert.Zero(t, c.Quantity(2))

	// index stays consistent after the shift
	c.Add(book(3, "C", "3.00"))
	assert.Equal(t, 2, c.Quantity(3))
}

func TestSummary(t *testing.T) {
	c := New()
	assert.Zero(t, c.Summary().TotalItems)
	assert.True(t, c.Summary().TotalCost.IsZero())

	c.Add(book(1, "A", "10.00"))
	c.Add(book(1, "A", "10.00"))
	c.Add(book(2, "B", "5.50"))

	s := c.Summary()
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, "25.50", s.TotalCost.StringFixed(2))
}

func TestSummary_NoFloatDrift(t *testing.T) {
	c := New()
	for i := 0; i < 10; i++ {
		c.Add(book(1, "Dime novel", "0.10"))
	}
	c.Add(book(2, "Odd", "0.333"))

	s := c.Summary()
	assert.Equal(t, 11, s.TotalItems)
	assert.Equal(t, "1.33", s.TotalCost.String())
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	c.Add(book(1, "A", "1.00"))
	lines := c.Lines()
	lines[0].Quantity = 50
	assert.Equal(t, 1, c.Quantity(1))
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(book(1, "A", "1.00"))
	c.Clear()
	assert.Zero(t, c.Len())
	c.Add(book(1, "A", "1.00"))
	assert.Equal(t, 1, c.Quantity(1))
}
