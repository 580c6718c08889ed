package entity

import (
	"slices"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is the denormalized copy of a product taken when it is added to a cart.
// Later catalog edits do not change it.
type ProductSnapshot struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	Stock         int     `json:"stock"`
	PurchaseLimit int     `json:"purchaseLimit"`
}

// SnapshotOf captures the fields of p that a cart line needs.
func SnapshotOf(p *Product) ProductSnapshot {
	return ProductSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Image:         p.Images[0].URL,
		Category:      p.Category,
		Stock:         p.Stock,
		PurchaseLimit: p.PurchaseLimit,
	}
}

// CartKey identifies a cart line.
type CartKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// CartItem is one line of a cart or an order.
type CartItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
}

// Key returns the identity of the line.
func (i CartItem) Key() CartKey {
	return CartKey{ProductID: i.Product.ID, Size: i.Size, Color: i.Color}
}

// Subtotal returns price times quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Product.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the set of lines a shopper intends to purchase.
type Cart struct {
	Items []CartItem `json:"items"`
}

// NewCart wraps a persisted item list.
func NewCart(items []CartItem) *Cart {
	if items == nil {
		items = []CartItem{}
	}

	return &Cart{Items: items}
}

// AddItem increments the line matching (product, size, color) by one, or appends a new line with quantity 1.
// Upper bounds are the caller's responsibility.
func (c *Cart) AddItem(product ProductSnapshot, size, color string) {
	key := CartKey{ProductID: product.ID, Size: size, Color: color}
	if idx := c.index(key); idx >= 0 {
		c.Items[idx].Quantity++

		return
	}

	c.Items = append(c.Items, CartItem{
		Product:  product,
		Quantity: 1,
		Size:     size,
		Color:    color,
	})
}

// UpdateQuantity sets the quantity of a line verbatim. A quantity below 1 removes the line.
func (c *Cart) UpdateQuantity(key CartKey, quantity int) error {
	if quantity < 1 {
		return c.RemoveItem(key)
	}

	idx := c.index(key)
	if idx < 0 {
		return ErrCartItemMissing
	}
	c.Items[idx].Quantity = quantity

	return nil
}

// RemoveItem drops a line.
func (c *Cart) RemoveItem(key CartKey) error {
	idx := c.index(key)
	if idx < 0 {
		return ErrCartItemMissing
	}
	c.Items = slices.Delete(c.Items, idx, idx+1)

	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// Find returns the line for key.
func (c *Cart) Find(key CartKey) (CartItem, bool) {
	idx := c.index(key)
	if idx < 0 {
		return CartItem{}, false
	}

	return c.Items[idx], true
}

// QuantityOf sums the quantities of every line of one product, across sizes and colors.
func (c *Cart) QuantityOf(productID string) int {
	total := 0
	for _, item := range c.Items {
		if item.Product.ID == productID {
			total += item.Quantity
		}
	}

	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems is the sum of all quantities, computed from the live list.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}

	return total
}

// TotalPrice is the sum of price times quantity, computed from the live list.
func (c *Cart) TotalPrice() float64 {
	return SumItems(c.Items)
}

// SumItems totals a list of lines with decimal arithmetic.
func SumItems(items []CartItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return total.Round(2).InexactFloat64()
}

func (c *Cart) index(key CartKey) int {
	return slices.IndexFunc(c.Items, func(item CartItem) bool {
		return item.Key() == key
	})
}
