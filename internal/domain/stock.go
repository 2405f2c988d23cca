package domain

// StockCheckResult answers a single (book, quantity) availability query.
type StockCheckResult struct {
	BookID            string `json:"bookId"`
	InStock           bool   `json:"inStock"`
	AvailableQuantity int    `json:"availableQuantity"`
}
