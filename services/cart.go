package services

import "restaurant/models"

// CartLine is one menu item in a cart. Price is frozen when the item is
// first added.
type CartLine struct {
	MenuItemID int64
	Name       string
	Price      models.Amount
	Quantity   int
}

// LineTotal returns Price*Quantity.
func (l CartLine) LineTotal() models.Amount {
	return l.Price.Times(l.Quantity)
}

// Cart is the session-scoped selection of menu items. It is not safe for
// concurrent use; a Session owns exactly one.
type Cart struct {
	lines []CartLine
}

// Add puts qty units of item into the cart. A line for the same item gets
// its quantity increased and keeps its original price.
func (c *Cart) Add(item models.MenuItem, qty int) error {
	if qty <= 0 {
		return &models.ValidationError{Fields: []string{"quantity"}, Message: "quantity must be positive"}
	}
	for i := range c.lines {
		if c.lines[i].MenuItemID == item.ID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   qty,
	})
	return nil
}

// Remove deletes the line at index and reports whether anything was removed.
// Out-of-range indexes are ignored.
func (c *Cart) Remove(index int) bool {
	if index < 0 || index >= len(c.lines) {
		return false
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Total is the sum of price*quantity over all lines.
func (c *Cart) Total() models.Amount {
	var total models.Amount
	for _, l := range c.lines {
		total += l.LineTotal()
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Empty() bool { return len(c.lines) == 0 }
