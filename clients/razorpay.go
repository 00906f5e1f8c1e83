package clients

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tindora/tindora-api/config"
	"github.com/tindora/tindora-api/services"
)

// RazorpayClient implements the payment gateway collaborator: intent
// creation over the Orders API and local HMAC verification of the capture
// signature the client brings back.
type RazorpayClient struct {
	http      *resty.Client
	keySecret string
}

func NewRazorpayClient(cfg *config.RazorpayConfig) *RazorpayClient {
	return &RazorpayClient{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetBasicAuth(cfg.KeyID, cfg.KeySecret).
			SetTimeout(30 * time.Second),
		keySecret: cfg.KeySecret,
	}
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (c *RazorpayClient) CreateIntent(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*services.GatewayIntent, error) {
	body := map[string]any{
		// The gateway expects the smallest currency unit.
		"amount":   amount * 100,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	var out razorpayOrderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		// Decode as JSON even if the gateway omits the content type.
		ForceContentType("application/json").
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("gateway order request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway order request failed with status %d: %s",
			resp.StatusCode(), string(resp.Body()))
	}
	if out.ID == "" {
		return nil, fmt.Errorf("gateway order response missing id: %s", string(resp.Body()))
	}

	return &services.GatewayIntent{ID: out.ID, Amount: amount, Currency: currency}, nil
}

// VerifySignature checks the capture proof: the signature must be the hex
// HMAC-SHA256 of "<gatewayOrderID>|<gatewayPaymentID>" under the key secret.
func (c *RazorpayClient) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
