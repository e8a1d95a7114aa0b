package cart

import (
	"vinyl-crate/internal/model"
)

// Cart is the in-memory cart aggregate. Lines are kept in insertion order for
// stable rendering and keyed by product ID: at most one line per product, and
// a line's quantity is always at least 1.
//
// The pure aggregate has no failure modes beyond programmer error; invalid
// arguments are clamped or ignored so a UI driving it can never crash it.
// It is not safe for concurrent use; SyncedCart adds the locking for the
// shared, server-backed variant.
type Cart struct {
	lines []model.CartLine
	index map[string]int

	count    int
	subtotal float64
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{
		index: make(map[string]int),
	}
}

// Add merges qty units of v into the cart. If a line for v.ID already exists
// its quantity grows by qty; otherwise a new line is appended with the price,
// title and cover snapshotted from v at this instant. qty below 1 is clamped
// to 1.
func (c *Cart) Add(v model.Vinyl, qty int) {
	if v.ID == "" {
		return
	}
	if qty < 1 {
		qty = 1
	}

	if i, ok := c.index[v.ID]; ok {
		c.lines[i].Quantity += qty
		c.subtotal += float64(qty) * c.lines[i].UnitPrice
		c.count += qty
		return
	}

	c.index[v.ID] = len(c.lines)
	c.lines = append(c.lines, model.CartLine{
		ProductID:   v.ID,
		Quantity:    qty,
		UnitPrice:   v.Price,
		DisplayName: v.Title,
		ImageRef:    v.CoverPath,
	})
	c.subtotal += float64(qty) * v.Price
	c.count += qty
}

// Inc increases the quantity of the line for productID by exactly 1.
// Unknown product IDs are a no-op.
func (c *Cart) Inc(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines[i].Quantity++
	c.subtotal += c.lines[i].UnitPrice
	c.count++
}

// Dec decreases the quantity of the line for productID by 1, floored at 1.
// Dec never removes a line; Update or Remove are the removal paths.
// Unknown product IDs are a no-op.
func (c *Cart) Dec(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	if c.lines[i].Quantity <= 1 {
		return
	}
	c.lines[i].Quantity--
	c.subtotal -= c.lines[i].UnitPrice
	c.count--
}

// Update sets the quantity of the line for productID. A quantity below 1
// removes the line. Unknown product IDs are a no-op.
func (c *Cart) Update(productID string, qty int) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	if qty < 1 {
		c.Remove(productID)
		return
	}
	delta := qty - c.lines[i].Quantity
	c.lines[i].Quantity = qty
	c.subtotal += float64(delta) * c.lines[i].UnitPrice
	c.count += delta
}

// Remove deletes the line for productID if present; removing an absent line
// is a no-op.
func (c *Cart) Remove(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	line := c.lines[i]
	c.subtotal -= float64(line.Quantity) * line.UnitPrice
	c.count -= line.Quantity

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
	c.count = 0
	c.subtotal = 0
}

// Restore replaces the cart contents with the given lines, preserving their
// order. Duplicate product IDs are merged and quantities below 1 dropped, so
// the aggregate invariants hold regardless of the input. A merged duplicate
// contributes at the kept line's unit price, keeping the subtotal equal to the
// sum over the resulting lines.
func (c *Cart) Restore(lines []model.CartLine) {
	c.Clear()
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if i, ok := c.index[l.ProductID]; ok {
			c.lines[i].Quantity += l.Quantity
			c.subtotal += float64(l.Quantity) * c.lines[i].UnitPrice
		} else {
			c.index[l.ProductID] = len(c.lines)
			c.lines = append(c.lines, l)
			c.subtotal += float64(l.Quantity) * l.UnitPrice
		}
		c.count += l.Quantity
	}
}

// Subtotal returns the sum of quantity times unit price over all lines.
// Rounding is a presentation concern; internal arithmetic keeps full
// precision.
func (c *Cart) Subtotal() float64 {
	return c.subtotal
}

// Count returns the total number of units across all lines; 0 for an empty
// cart.
func (c *Cart) Count() int {
	return c.count
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Line returns the line for productID, if present.
func (c *Cart) Line(productID string) (model.CartLine, bool) {
	i, ok := c.index[productID]
	if !ok {
		return model.CartLine{}, false
	}
	return c.lines[i], true
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
