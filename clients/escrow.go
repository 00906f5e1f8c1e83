package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// EscrowServiceClient asks the settlement service to hold captured funds.
type EscrowServiceClient struct {
	http *resty.Client
}

func NewEscrowServiceClient(baseURL string) *EscrowServiceClient {
	return &EscrowServiceClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
	}
}

func (c *EscrowServiceClient) HoldEscrow(ctx context.Context, orderNumber string, userID uint, amount int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"orderNumber": orderNumber,
			"userId":      userID,
			"amount":      amount,
		}).
		Post("/escrow/hold")
	if err != nil {
		return fmt.Errorf("escrow hold request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("escrow service returned status %d", resp.StatusCode())
	}
	return nil
}
