package services

import (
	"context"

	"github.com/tindora/tindora-api/models"
)

// GatewayIntent is the remote payment intent a gateway order must complete
// against before the restaurant ever sees it.
type GatewayIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*GatewayIntent, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// RestaurantNotifier pushes a new confirmed order to the restaurant. Calls
// are best-effort: a failure is logged and never unwinds order state.
type RestaurantNotifier interface {
	NotifyNewOrder(ctx context.Context, order *models.Order, paymentHint string) error
}

type ETAWindow struct {
	MinMinutes int `json:"minMinutes"`
	MaxMinutes int `json:"maxMinutes"`
}

// ETAService estimates the initial delivery window. Absence of an ETA is
// acceptable; failures never block order creation.
type ETAService interface {
	InitialETA(ctx context.Context, restaurant, customer models.GeoPoint) (*ETAWindow, error)
}

// EscrowClient marks captured funds as provisionally held pending payout.
type EscrowClient interface {
	HoldEscrow(ctx context.Context, orderNumber string, userID uint, amount int64) error
}
