package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func orderModelWithID(id uint) gorm.Model {
	return gorm.Model{ID: id}
}

// memOrderStore implements orderStore in memory for workflow tests.
type memOrderStore struct {
	mu       sync.Mutex
	orders   map[uint]*models.Order
	payments []models.Payment
	refunds  []models.RefundRequest
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[uint]*models.Order)}
}

func (s *memOrderStore) seed(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := order
	s.orders[order.ID] = &copied
}

func (s *memOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = uint(len(s.orders) + 1)
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

func (s *memOrderStore) Get(_ context.Context, orderID uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *memOrderStore) Update(_ context.Context, order *models.Order, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[order.ID]
	if !ok {
		return errors.New("order not found")
	}
	for key, value := range fields {
		switch key {
		case "status":
			stored.Status = value.(string)
		case "payment_status":
			stored.PaymentStatus = value.(string)
		case "gateway_order_id":
			stored.GatewayOrderID = value.(string)
		case "gateway_payment_id":
			stored.GatewayPaymentID = value.(string)
		case "cancel_reason":
			stored.CancelReason = value.(string)
		case "cancelled_by":
			stored.CancelledBy = value.(string)
		case "cancelled_at":
			at := value.(time.Time)
			stored.CancelledAt = &at
		case "confirmed_at":
			at := value.(time.Time)
			stored.ConfirmedAt = &at
		case "eta_min_minutes":
			stored.EtaMinMinutes = value.(int)
		case "eta_max_minutes":
			stored.EtaMaxMinutes = value.(int)
		}
	}
	return nil
}

func (s *memOrderStore) ListByUser(_ context.Context, userID uint, _ string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (s *memOrderStore) List(_ context.Context, _ ListParams) ([]models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []models.Order
	for _, o := range s.orders {
		orders = append(orders, *o)
	}
	return orders, int64(len(orders)), nil
}

func (s *memOrderStore) CreatePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *payment)
	return nil
}

func (s *memOrderStore) CreateRefund(_ context.Context, refund *models.RefundRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refunds = append(s.refunds, *refund)
	return nil
}

func (s *memOrderStore) Restaurant(_ context.Context, _ uint) (*models.Restaurant, error) {
	return nil, nil
}

func (s *memOrderStore) stored(orderID uint) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.orders[orderID]
}

// fakeGateway accepts exactly one signature.
type fakeGateway struct {
	validSignature string
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency, _ string, _ map[string]string) (*GatewayIntent, error) {
	return &GatewayIntent{ID: "gw_intent_1", Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) VerifySignature(_, _, signature string) bool {
	return signature == g.validSignature
}

func newTestOrderService(store orderStore, gateway PaymentGateway) *OrderService {
	return newOrderServiceWithStore(store, nil, nil, nil, gateway, nil, nil, nil, "INR", zap.NewNop())
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		raw  string
		want PaymentMethod
	}{
		{"cash", MethodCash},
		{"COD", MethodCash},
		{"Cash On Delivery", MethodCash},
		{"  cash  ", MethodCash},
		{"wallet", MethodWallet},
		{"WALLET", MethodWallet},
		{"razorpay", MethodGateway},
		{"upi", MethodGateway},
		{"", MethodGateway},
	}

	for _, tt := range tests {
		if got := NormalizePaymentMethod(tt.raw); got != tt.want {
			t.Errorf("NormalizePaymentMethod(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusConfirmed, models.OrderStatusPreparing, true},
		{models.OrderStatusPreparing, models.OrderStatusReady, true},
		{models.OrderStatusReady, models.OrderStatusPickedUp, true},
		{models.OrderStatusPickedUp, models.OrderStatusDelivered, true},
		{models.OrderStatusPickedUp, models.OrderStatusCancelled, true},

		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusConfirmed, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed, false},
		{models.OrderStatusPreparing, models.OrderStatusPickedUp, false},
	}

	for _, tt := range tests {
		if got := ValidStatusTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCancelDeliveredOrderFails(t *testing.T) {
	store := newMemOrderStore()
	store.seed(models.Order{
		Model:  orderModelWithID(1),
		Status: models.OrderStatusDelivered,
	})
	svc := newTestOrderService(store, nil)

	_, err := svc.Cancel(context.Background(), 1, "changed my mind", "customer")
	if err == nil {
		t.Fatal("expected conflict cancelling a delivered order")
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindConflict {
		t.Errorf("error = %v, want conflict kind", err)
	}
	if got := store.stored(1).Status; got != models.OrderStatusDelivered {
		t.Errorf("status = %q, want delivered untouched", got)
	}
}

func TestCancelAlreadyCancelledOrderFails(t *testing.T) {
	store := newMemOrderStore()
	store.seed(models.Order{
		Model:  orderModelWithID(1),
		Status: models.OrderStatusCancelled,
	})
	svc := newTestOrderService(store, nil)

	_, err := svc.Cancel(context.Background(), 1, "again", "customer")
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindConflict {
		t.Errorf("error = %v, want conflict kind", err)
	}
}

func TestCancelPendingCashOrderQueuesNoRefund(t *testing.T) {
	store := newMemOrderStore()
	store.seed(models.Order{
		Model:         orderModelWithID(1),
		Status:        models.OrderStatusPending,
		PaymentMethod: string(MethodCash),
		Pricing:       models.Pricing{Total: 340},
	})
	svc := newTestOrderService(store, nil)

	order, err := svc.Cancel(context.Background(), 1, "too slow", "customer")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.Status != models.OrderStatusCancelled {
		t.Errorf("status = %q, want cancelled", order.Status)
	}
	if got := store.stored(1); got.Status != models.OrderStatusCancelled || got.CancelReason != "too slow" {
		t.Errorf("stored order = %+v, want cancelled with reason", got)
	}
	if len(store.refunds) != 0 {
		t.Errorf("refund requests = %d, want 0 for cash", len(store.refunds))
	}
}

func TestCancelPaidOrderQueuesRefund(t *testing.T) {
	for _, method := range []PaymentMethod{MethodWallet, MethodGateway} {
		t.Run(string(method), func(t *testing.T) {
			store := newMemOrderStore()
			store.seed(models.Order{
				Model:         orderModelWithID(1),
				Status:        models.OrderStatusConfirmed,
				PaymentMethod: string(method),
				PaymentStatus: models.PaymentStatusCompleted,
				Pricing:       models.Pricing{Total: 340},
			})
			svc := newTestOrderService(store, nil)

			if _, err := svc.Cancel(context.Background(), 1, "restaurant closed", "admin"); err != nil {
				t.Fatalf("cancel failed: %v", err)
			}
			if len(store.refunds) != 1 {
				t.Fatalf("refund requests = %d, want 1", len(store.refunds))
			}
			refund := store.refunds[0]
			if refund.Amount != 340 || refund.Status != models.RefundStatusPendingApproval {
				t.Errorf("refund = %+v, want amount 340 pending approval", refund)
			}
		})
	}
}

func TestVerifyPaymentInvalidSignatureLeavesOrderPending(t *testing.T) {
	store := newMemOrderStore()
	store.seed(models.Order{
		Model:          orderModelWithID(1),
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		PaymentMethod:  string(MethodGateway),
		GatewayOrderID: "gw_intent_1",
		Pricing:        models.Pricing{Total: 340},
	})
	svc := newTestOrderService(store, &fakeGateway{validSignature: "good"})

	_, err := svc.VerifyPayment(context.Background(), 1, VerifyPaymentRequest{
		GatewayOrderID:   "gw_intent_1",
		GatewayPaymentID: "pay_1",
		Signature:        "forged",
	})
	if err == nil {
		t.Fatal("expected error for forged signature")
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindValidation {
		t.Errorf("error = %v, want validation kind", err)
	}

	stored := store.stored(1)
	if stored.PaymentStatus != models.PaymentStatusFailed {
		t.Errorf("payment status = %q, want failed", stored.PaymentStatus)
	}
	if stored.Status != models.OrderStatusPending {
		t.Errorf("order status = %q, want still pending", stored.Status)
	}
	if len(store.payments) != 1 || store.payments[0].Status != models.PaymentStatusFailed {
		t.Errorf("payments = %+v, want one failed record", store.payments)
	}
}

func TestVerifyPaymentValidSignatureConfirms(t *testing.T) {
	store := newMemOrderStore()
	store.seed(models.Order{
		Model:          orderModelWithID(1),
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		PaymentMethod:  string(MethodGateway),
		GatewayOrderID: "gw_intent_1",
		Pricing:        models.Pricing{Total: 340},
	})
	svc := newTestOrderService(store, &fakeGateway{validSignature: "good"})

	order, err := svc.VerifyPayment(context.Background(), 1, VerifyPaymentRequest{
		GatewayOrderID:   "gw_intent_1",
		GatewayPaymentID: "pay_1",
		Signature:        "good",
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if order.Status != models.OrderStatusConfirmed || order.PaymentStatus != models.PaymentStatusCompleted {
		t.Errorf("order = %q/%q, want confirmed/completed", order.Status, order.PaymentStatus)
	}

	stored := store.stored(1)
	if stored.Status != models.OrderStatusConfirmed || stored.GatewayPaymentID != "pay_1" {
		t.Errorf("stored = %+v, want confirmed with payment id", stored)
	}
	if stored.ConfirmedAt == nil {
		t.Error("confirmed_at not set")
	}
	if len(store.payments) != 1 || store.payments[0].Status != models.PaymentStatusCompleted {
		t.Errorf("payments = %+v, want one completed record", store.payments)
	}
}

func TestVerifyPaymentIdempotentOnceCompleted(t *testing.T) {
	store := newMemOrderStore()
	store.seed(models.Order{
		Model:          orderModelWithID(1),
		Status:         models.OrderStatusConfirmed,
		PaymentStatus:  models.PaymentStatusCompleted,
		GatewayOrderID: "gw_intent_1",
	})
	svc := newTestOrderService(store, &fakeGateway{validSignature: "good"})

	order, err := svc.VerifyPayment(context.Background(), 1, VerifyPaymentRequest{
		GatewayOrderID:   "gw_intent_1",
		GatewayPaymentID: "pay_1",
		Signature:        "good",
	})
	if err != nil {
		t.Fatalf("replayed verify failed: %v", err)
	}
	if order.PaymentStatus != models.PaymentStatusCompleted {
		t.Errorf("payment status = %q, want completed", order.PaymentStatus)
	}
	if len(store.payments) != 0 {
		t.Errorf("payments = %d, want no new records on replay", len(store.payments))
	}
}

func TestVerifyPaymentGuards(t *testing.T) {
	t.Run("cancelled order", func(t *testing.T) {
		store := newMemOrderStore()
		store.seed(models.Order{
			Model:          orderModelWithID(1),
			Status:         models.OrderStatusCancelled,
			PaymentStatus:  models.PaymentStatusPending,
			GatewayOrderID: "gw_intent_1",
		})
		svc := newTestOrderService(store, &fakeGateway{validSignature: "good"})

		_, err := svc.VerifyPayment(context.Background(), 1, VerifyPaymentRequest{
			GatewayOrderID: "gw_intent_1", GatewayPaymentID: "pay_1", Signature: "good",
		})
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Kind != KindConflict {
			t.Errorf("error = %v, want conflict kind", err)
		}
	})

	t.Run("mismatched gateway order id", func(t *testing.T) {
		store := newMemOrderStore()
		store.seed(models.Order{
			Model:          orderModelWithID(1),
			Status:         models.OrderStatusPending,
			PaymentStatus:  models.PaymentStatusPending,
			GatewayOrderID: "gw_intent_1",
		})
		svc := newTestOrderService(store, &fakeGateway{validSignature: "good"})

		_, err := svc.VerifyPayment(context.Background(), 1, VerifyPaymentRequest{
			GatewayOrderID: "gw_other", GatewayPaymentID: "pay_1", Signature: "good",
		})
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Kind != KindValidation {
			t.Errorf("error = %v, want validation kind", err)
		}
	})
}

func TestNewOrderNumberShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := newOrderNumber()
		if !strings.HasPrefix(n, "ORD-") || len(n) != 12 {
			t.Fatalf("order number %q has unexpected shape", n)
		}
		if n != strings.ToUpper(n) {
			t.Fatalf("order number %q is not uppercase", n)
		}
		if seen[n] {
			t.Fatalf("order number %q repeated", n)
		}
		seen[n] = true
	}
}
