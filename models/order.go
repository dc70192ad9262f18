package models

import "time"

// Customer is the checkout form as submitted.
type Customer struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Instructions string `json:"instructions"`
}

// Summary is the priced view of a cart.
type Summary struct {
	TotalItems int   `json:"totalItems"`
	Subtotal   Money `json:"subtotal"`
	Tax        Money `json:"tax"`
	Total      Money `json:"total"`
}

// Order is a finalized cart. It is never modified after creation.
type Order struct {
	Invoice  string     `json:"invoice"`
	Customer Customer   `json:"customer"`
	Items    []CartItem `json:"items"`
	Subtotal Money      `json:"subtotal"`
	Tax      Money      `json:"tax"`
	Total    Money      `json:"total"`
	Date     string     `json:"date"`
}

// DateLayout is the human-readable layout of Order.Date.
const DateLayout = "Jan 2, 2006 3:04 PM"

// OrderFinalizedEvent is published after an order is recorded.
type OrderFinalizedEvent struct {
	Event     string     `json:"event"`
	Invoice   string     `json:"invoice"`
	Total     Money      `json:"total"`
	Items     []CartItem `json:"items"`
	Timestamp time.Time  `json:"timestamp"`
}
