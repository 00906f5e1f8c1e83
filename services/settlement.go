package services

import (
	"context"
	"strings"
	"time"

	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
)

// PaymentMethod is the normalized settlement variant. Dispatch happens once,
// at normalization, into one Settler per variant.
type PaymentMethod string

const (
	MethodCash    PaymentMethod = "cash"
	MethodWallet  PaymentMethod = "wallet"
	MethodGateway PaymentMethod = "razorpay"
)

// NormalizePaymentMethod folds the client-supplied method string into a
// variant. Anything unrecognized settles through the gateway.
func NormalizePaymentMethod(raw string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cash", "cod", "cash on delivery":
		return MethodCash
	case "wallet":
		return MethodWallet
	default:
		return MethodGateway
	}
}

type SettleResult struct {
	// Confirmed is true when the order reached confirmed synchronously
	// (cash and wallet). Gateway orders stay pending until verification.
	Confirmed bool
	// GatewayIntent is set for gateway settlements.
	GatewayIntent *GatewayIntent
	// WalletReplay is true when an idempotent wallet debit was skipped.
	WalletReplay bool
}

// Settler drives one settlement path for a freshly persisted pending order.
type Settler interface {
	Settle(ctx context.Context, order *models.Order) (*SettleResult, error)
}

type settlementDeps struct {
	store    orderStore
	ledger   *WalletLedger
	gateway  PaymentGateway
	currency string
	logger   *zap.Logger
}

func (d *settlementDeps) settlerFor(method PaymentMethod) Settler {
	switch method {
	case MethodCash:
		return &cashSettler{d}
	case MethodWallet:
		return &walletSettler{d}
	default:
		return &gatewaySettler{d}
	}
}

// recordPayment persists a settlement-attempt record. Failures are logged
// and swallowed: the payment table is bookkeeping, the order row and wallet
// ledger carry the authoritative state.
func (d *settlementDeps) recordPayment(ctx context.Context, order *models.Order, status, note string) *models.Payment {
	payment := &models.Payment{
		OrderID:          order.ID,
		Amount:           order.Pricing.Total,
		Currency:         d.currency,
		Method:           order.PaymentMethod,
		Status:           status,
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: order.GatewayPaymentID,
	}
	payment.AppendLog(status, note)
	if err := d.store.CreatePayment(ctx, payment); err != nil {
		d.logger.Warn("failed to record payment",
			zap.Uint("order_id", order.ID), zap.String("status", status), zap.Error(err))
		return nil
	}
	return payment
}

func (d *settlementDeps) confirmOrder(ctx context.Context, order *models.Order, paymentStatus string) error {
	now := time.Now()
	err := d.store.Update(ctx, order, map[string]any{
		"status":         models.OrderStatusConfirmed,
		"confirmed_at":   now,
		"payment_status": paymentStatus,
	})
	if err != nil {
		return err
	}
	order.Status = models.OrderStatusConfirmed
	order.ConfirmedAt = &now
	order.PaymentStatus = paymentStatus
	return nil
}

// cashSettler confirms immediately; money changes hands at the door.
type cashSettler struct{ *settlementDeps }

func (s *cashSettler) Settle(ctx context.Context, order *models.Order) (*SettleResult, error) {
	s.recordPayment(ctx, order, models.PaymentStatusPending, "cash on delivery")
	if err := s.confirmOrder(ctx, order, models.PaymentStatusPending); err != nil {
		return nil, internalErr("failed to confirm cash order", err)
	}
	return &SettleResult{Confirmed: true}, nil
}

// walletSettler debits the internal wallet, then confirms. Once the debit
// has committed, no later failure may implicitly reverse it; a confirm
// failure is surfaced for manual reconciliation instead.
type walletSettler struct{ *settlementDeps }

func (s *walletSettler) Settle(ctx context.Context, order *models.Order) (*SettleResult, error) {
	txn, replayed, err := s.ledger.Debit(ctx, order.UserID, order.Pricing.Total, order.ID)
	if err != nil {
		return nil, err
	}

	s.recordPayment(ctx, order, models.PaymentStatusCompleted, "wallet debit "+txn.Status)
	if err := s.confirmOrder(ctx, order, models.PaymentStatusCompleted); err != nil {
		s.logger.Error("order confirm failed after wallet debit, needs reconciliation",
			zap.Uint("order_id", order.ID), zap.Uint("user_id", order.UserID), zap.Error(err))
		return nil, internalErr("order confirmation failed after wallet debit", err)
	}
	return &SettleResult{Confirmed: true, WalletReplay: replayed}, nil
}

// gatewaySettler creates the remote payment intent and leaves the order
// pending; VerifyPayment completes the flow once the gateway proves capture.
type gatewaySettler struct{ *settlementDeps }

func (s *gatewaySettler) Settle(ctx context.Context, order *models.Order) (*SettleResult, error) {
	if s.gateway == nil {
		return nil, upstreamErr("payment gateway is not configured", nil)
	}

	intent, err := s.gateway.CreateIntent(ctx, order.Pricing.Total, s.currency, order.OrderNumber,
		map[string]string{"order_number": order.OrderNumber})
	if err != nil {
		return nil, upstreamErr("failed to create payment intent", err)
	}

	if err := s.store.Update(ctx, order, map[string]any{"gateway_order_id": intent.ID}); err != nil {
		s.logger.Error("gateway intent created but not saved on order",
			zap.Uint("order_id", order.ID), zap.String("intent_id", intent.ID), zap.Error(err))
		return nil, internalErr("failed to attach payment intent to order", err)
	}
	order.GatewayOrderID = intent.ID

	s.recordPayment(ctx, order, models.PaymentStatusPending, "gateway intent created")
	return &SettleResult{Confirmed: false, GatewayIntent: intent}, nil
}
