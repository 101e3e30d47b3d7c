package domain

import (
	"slices"
	"sort"
)

// ProductSnapshot is the display info captured when a product first enters
// a cart. It is not refreshed by later adds.
type ProductSnapshot struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
	Image string  `json:"image" bson:"image"`
}

// CartEntry holds the per-size quantities of one product in a cart.
type CartEntry struct {
	ProductInfo ProductSnapshot `json:"productInfo" bson:"productInfo"`
	Quantities  map[string]int  `json:"quantities" bson:"quantities"`
}

// Cart maps product id to its entry. A product id is present only while at
// least one size has a positive quantity.
type Cart map[string]*CartEntry

// Increment adds one unit of size. The snapshot is only used when the
// product is new to the cart. Returns the new quantity.
func (c Cart) Increment(productID, size string, snapshot ProductSnapshot) int {
	entry := c.entry(productID, snapshot)
	entry.Quantities[size]++
	return entry.Quantities[size]
}

// SetQuantity sets size to quantity. A quantity of zero or less removes the
// size, and the product too once it has no sizes left.
func (c Cart) SetQuantity(productID, size string, quantity int, snapshot ProductSnapshot) {
	if quantity <= 0 {
		entry, ok := c[productID]
		if !ok {
			return
		}
		delete(entry.Quantities, size)
		if len(entry.Quantities) == 0 {
			delete(c, productID)
		}
		return
	}

	c.entry(productID, snapshot).Quantities[size] = quantity
}

func (c Cart) entry(productID string, snapshot ProductSnapshot) *CartEntry {
	entry, ok := c[productID]
	if !ok || entry == nil {
		entry = &CartEntry{ProductInfo: snapshot}
		c[productID] = entry
	}
	if entry.Quantities == nil {
		entry.Quantities = make(map[string]int)
	}
	return entry
}

// Quantity returns the quantity held for productID and size.
func (c Cart) Quantity(productID, size string) int {
	entry, ok := c[productID]
	if !ok || entry == nil {
		return 0
	}
	return entry.Quantities[size]
}

// ItemCount is the sum of all quantities across products and sizes.
func (c Cart) ItemCount() int {
	n := 0
	for _, entry := range c {
		if entry == nil {
			continue
		}
		for _, q := range entry.Quantities {
			n += q
		}
	}
	return n
}

// ProductIDs returns the cart's product ids in ascending order.
func (c Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, entry := range c {
		if entry == nil {
			continue
		}
		cp := &CartEntry{ProductInfo: entry.ProductInfo, Quantities: make(map[string]int, len(entry.Quantities))}
		for size, q := range entry.Quantities {
			cp.Quantities[size] = q
		}
		out[id] = cp
	}
	return out
}

// OrderedSizes lists the entry's sizes following order (the product's size
// list); sizes not in order come last, lexically.
func (e *CartEntry) OrderedSizes(order []string) []string {
	sizes := make([]string, 0, len(e.Quantities))
	for size := range e.Quantities {
		sizes = append(sizes, size)
	}
	rank := func(s string) int {
		if i := slices.Index(order, s); i >= 0 {
			return i
		}
		return len(order)
	}
	sort.Slice(sizes, func(i, j int) bool {
		ri, rj := rank(sizes[i]), rank(sizes[j])
		if ri != rj {
			return ri < rj
		}
		return sizes[i] < sizes[j]
	})
	return sizes
}

// CartState is the stored cart plus its cached total, as returned by
// cart mutations.
type CartState struct {
	CartData  Cart    `json:"cartData"`
	CartTotal float64 `json:"cartTotal"`
}

// CartSize is one size row of a cart line.
type CartSize struct {
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartLine is one product of the enriched cart view, priced live.
type CartLine struct {
	ProductID string     `json:"productId"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Image     string     `json:"image"`
	Stock     int        `json:"stock"`
	Sizes     []CartSize `json:"sizes"`
	Total     float64    `json:"total"`
}

// CartView is the enriched cart returned to clients.
type CartView struct {
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}
