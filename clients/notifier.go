package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tindora/tindora-api/models"
)

// NotificationClient pushes new confirmed orders to the restaurant-facing
// notification service. Callers treat it as fire-and-forget.
type NotificationClient struct {
	http *resty.Client
}

func NewNotificationClient(baseURL string) *NotificationClient {
	return &NotificationClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
	}
}

func (c *NotificationClient) NotifyNewOrder(ctx context.Context, order *models.Order, paymentHint string) error {
	body := map[string]any{
		"orderId":       order.ID,
		"orderNumber":   order.OrderNumber,
		"restaurantId":  order.RestaurantID,
		"paymentMethod": paymentHint,
		"total":         order.Pricing.Total,
		"itemCount":     len(order.Items),
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/notifications/new-order")
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode())
	}
	return nil
}
