package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/domain"
)

// OrderPlacer submits a composed order and returns the order service's
// verdict. A rejected order is a valid outcome, not an error.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, request *domain.OrderRequest) (*domain.OrderOutcome, error)
}

type OrderClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*domain.OrderOutcome]
	timeout    time.Duration
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[*domain.OrderOutcome](gobreaker.Settings{
			Name: "order-service",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			Timeout: 30 * time.Second,
		}),
		timeout: timeout,
	}
}

func (c *OrderClient) PlaceOrder(ctx context.Context, request *domain.OrderRequest) (*domain.OrderOutcome, error) {
	outcome, err := c.breaker.Execute(func() (*domain.OrderOutcome, error) {
		return c.doPlace(ctx, request)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: place order for user %s: %v", ErrDependencyUnavailable, request.UserID, err)
	}
	return outcome, nil
}

func (c *OrderClient) doPlace(ctx context.Context, request *domain.OrderRequest) (*domain.OrderOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal order request failed: %w", err)
	}

	orderURL := fmt.Sprintf("%s/api/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, orderURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call order service failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var outcome domain.OrderOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("decode order response failed: %w", err)
	}
	return &outcome, nil
}

var _ OrderPlacer = (*OrderClient)(nil)
