package models

import "time"

const OrderStatusPending = "pending"

// EstimatedDelivery is shown on the order confirmation.
const EstimatedDelivery = "30-45 minutes"

// Order is a row from orders. TotalAmount is computed from the cart at
// placement time and never recomputed afterwards.
type Order struct {
	ID          int64
	UserID      int64
	TotalAmount Amount
	Status      string
	CreatedAt   time.Time
	Lines       []OrderLine
}

// OrderLine is a row from order_items. Price is captured at order time,
// not joined from menu_items.
type OrderLine struct {
	ID         int64
	OrderID    int64
	MenuItemID int64
	Quantity   int
	Price      Amount
}

// LineTotal returns Price*Quantity.
func (l OrderLine) LineTotal() Amount {
	return l.Price.Times(l.Quantity)
}

// CreateOrderInput is what the ledger hands to a store: the header and all
// lines that must be written in one transaction.
type CreateOrderInput struct {
	UserID      int64
	TotalAmount Amount
	Status      string
	Lines       []OrderLine
}
