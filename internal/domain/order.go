package domain

// OrderItem is a single line of an order request. Titles and prices are not
// sent, the order service resolves them against the catalog.
type OrderItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is built from a cart snapshot at checkout time and is never
// persisted by this service.
type OrderRequest struct {
	UserID string      `json:"userId"`
	Items  []OrderItem `json:"items"`
}

const OrderStatusSuccess = "success"

// OrderOutcome is the order service's verdict. Status is the sole source of
// truth for success, a non-empty OrderID alone does not mean the order went
// through.
type OrderOutcome struct {
	Status  string `json:"status"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}

func (o *OrderOutcome) Succeeded() bool {
	return o.Status == OrderStatusSuccess
}
