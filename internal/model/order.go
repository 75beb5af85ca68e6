package model

// OrderStatus is the server-owned lifecycle state of a placed order.
// The server pushes transitions; the client only projects them.
type OrderStatus string

const (
	OrderWaiting    OrderStatus = "WAITING"
	OrderSending    OrderStatus = "SENDING"
	OrderFailed     OrderStatus = "FAILED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleting OrderStatus = "COMPLETING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderDelivering OrderStatus = "DELIVERING"
	OrderDelivered  OrderStatus = "DELIVERED"
)

// Known reports whether the status is one the client recognizes.
// Unknown statuses render as a generic state, never as a raw code.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderWaiting, OrderSending, OrderFailed, OrderProcessing,
		OrderCompleting, OrderCompleted, OrderDelivering, OrderDelivered:
		return true
	}
	return false
}

// OrderedItem is a single line of a placed order, priced at order time.
type OrderedItem struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// Order is a read-only projection of a server-owned order.
// Immutable once assigned except for status transitions pushed by the
// server. Dates stay in the server's display format.
type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id,omitempty"`
	Status        OrderStatus   `json:"status"`
	IssueDate     string        `json:"issue_date"`
	DeliveryDate  string        `json:"delivery_date,omitempty"`
	StatusMessage string        `json:"status_message,omitempty"`
	Items         []OrderedItem `json:"items"`
}

// Total is the estimated net sum over all lines.
func (o Order) Total() Money {
	var total Money
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.MulInt(item.Quantity))
	}
	return total
}
