package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tindora/tindora-api/models"
	"github.com/tindora/tindora-api/services"
)

// ETAClient asks the delivery-estimation service for an initial window.
type ETAClient struct {
	http *resty.Client
}

func NewETAClient(baseURL string) *ETAClient {
	return &ETAClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(5 * time.Second),
	}
}

func (c *ETAClient) InitialETA(ctx context.Context, restaurant, customer models.GeoPoint) (*services.ETAWindow, error) {
	var out services.ETAWindow
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"restaurant": restaurant,
			"customer":   customer,
		}).
		SetResult(&out).
		Post("/eta/initial")
	if err != nil {
		return nil, fmt.Errorf("eta request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("eta service returned status %d", resp.StatusCode())
	}
	return &out, nil
}
