package models

// Addon is an optional priced extra attached to a cart entry.
type Addon struct {
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// CartItem is one line of the cart. Name and Addons together identify it.
type CartItem struct {
	Name     string  `json:"name"`
	Price    Money   `json:"price"`
	Quantity int     `json:"quantity"`
	Addons   []Addon `json:"addons"`
}

// Matches reports whether the item has the given identity. Addons are compared
// element-wise in order; a nil and an empty list are the same.
func (ci CartItem) Matches(name string, addons []Addon) bool {
	return ci.Name == name && SameAddons(ci.Addons, addons)
}

// LineTotal is Price * Quantity.
func (ci CartItem) LineTotal() Money {
	return ci.Price.Times(ci.Quantity)
}

// Clone returns a deep copy that shares no backing arrays with ci.
func (ci CartItem) Clone() CartItem {
	out := ci
	out.Addons = make([]Addon, len(ci.Addons))
	copy(out.Addons, ci.Addons)
	return out
}

// SameAddons compares two addon sequences structurally and order-sensitively.
func SameAddons(a, b []Addon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Price.Same(b[i].Price) {
			return false
		}
	}
	return true
}

// CloneItems deep-copies a cart.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// AddonTotal sums addon prices.
func AddonTotal(addons []Addon) Money {
	total := Zero
	for _, a := range addons {
		total = total.Plus(a.Price)
	}
	return total
}
