package model

import "github.com/shopspring/decimal"

// CartItem is one purchase line in the cart.
type CartItem struct {
	Product  Product
	Quantity int
}

// Subtotal multiplies the last known unit price by quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered collection of lines, at most one per product.
type Cart struct {
	Items []CartItem
}

// ItemCount sums quantities of all lines.
func (c Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Total sums line subtotals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Index returns position of the line holding productID.
func (c Cart) Index(productID int64) (int, bool) {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i, true
		}
	}
	return -1, false
}

// HasPhysical reports whether any line has to be shipped.
func (c Cart) HasPhysical() bool {
	for _, item := range c.Items {
		if item.Product.Type.Physical() {
			return true
		}
	}
	return false
}
