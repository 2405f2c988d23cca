package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/domain"
)

// StockChecker answers availability queries for a (book, quantity) pair.
// Consumers define this interface so tests can swap in a double.
type StockChecker interface {
	CheckStock(ctx context.Context, bookID string, quantity int) (*domain.StockCheckResult, error)
}

type StockClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*domain.StockCheckResult]
	timeout    time.Duration
}

func NewStockClient(baseURL string, timeout time.Duration) *StockClient {
	return &StockClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[*domain.StockCheckResult](gobreaker.Settings{
			Name: "stock-check-service",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			Timeout: 30 * time.Second,
		}),
		timeout: timeout,
	}
}

// CheckStock performs a single synchronous availability query. No retries,
// a transport failure or timeout surfaces as ErrDependencyUnavailable.
func (c *StockClient) CheckStock(ctx context.Context, bookID string, quantity int) (*domain.StockCheckResult, error) {
	result, err := c.breaker.Execute(func() (*domain.StockCheckResult, error) {
		return c.doCheck(ctx, bookID, quantity)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: stock check for book %s: %v", ErrDependencyUnavailable, bookID, err)
	}
	return result, nil
}

func (c *StockClient) doCheck(ctx context.Context, bookID string, quantity int) (*domain.StockCheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("bookId", bookID)
	query.Set("quantity", strconv.Itoa(quantity))
	checkURL := fmt.Sprintf("%s/api/stock/check?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call stock-check service failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var result domain.StockCheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode stock response failed: %w", err)
	}
	return &result, nil
}

var _ StockChecker = (*StockClient)(nil)
