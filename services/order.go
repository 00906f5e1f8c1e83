package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateOrderRequest is a cart submission.
type CreateOrderRequest struct {
	UserID        uint                   `json:"userId" binding:"required"`
	RestaurantID  string                 `json:"restaurantId" binding:"required"`
	ZoneID        *uint                  `json:"zoneId"`
	Items         []CartItemInput        `json:"items" binding:"required"`
	Address       models.DeliveryAddress `json:"address"`
	CouponCode    string                 `json:"couponCode"`
	PaymentMethod string                 `json:"paymentMethod"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

type CreateOrderResult struct {
	Order         *models.Order
	GatewayIntent *GatewayIntent
}

// orderStore is the persistence boundary of the order workflow, mirroring
// the wallet ledger's store. Get and Restaurant return nil with no error
// when the record is missing.
type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID uint) (*models.Order, error)
	Update(ctx context.Context, order *models.Order, fields map[string]any) error
	ListByUser(ctx context.Context, userID uint, sortOrder string) ([]models.Order, error)
	List(ctx context.Context, params ListParams) ([]models.Order, int64, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	CreateRefund(ctx context.Context, refund *models.RefundRequest) error
	Restaurant(ctx context.Context, restaurantID uint) (*models.Restaurant, error)
}

// OrderService drives the order pipeline: validate, price, persist pending,
// settle, then best-effort post-confirmation side effects.
type OrderService struct {
	store     orderStore
	validator *Validator
	pricer    *Pricer
	escrow    *EscrowRecorder
	notifier  RestaurantNotifier
	eta       ETAService
	logger    *zap.Logger
	deps      *settlementDeps
}

func NewOrderService(
	db *gorm.DB,
	validator *Validator,
	pricer *Pricer,
	ledger *WalletLedger,
	gateway PaymentGateway,
	notifier RestaurantNotifier,
	eta ETAService,
	escrow *EscrowRecorder,
	currency string,
	logger *zap.Logger,
) *OrderService {
	return newOrderServiceWithStore(&gormOrderStore{db: db},
		validator, pricer, ledger, gateway, notifier, eta, escrow, currency, logger)
}

func newOrderServiceWithStore(
	store orderStore,
	validator *Validator,
	pricer *Pricer,
	ledger *WalletLedger,
	gateway PaymentGateway,
	notifier RestaurantNotifier,
	eta ETAService,
	escrow *EscrowRecorder,
	currency string,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		store:     store,
		validator: validator,
		pricer:    pricer,
		escrow:    escrow,
		notifier:  notifier,
		eta:       eta,
		logger:    logger,
		deps: &settlementDeps{
			store:    store,
			ledger:   ledger,
			gateway:  gateway,
			currency: currency,
			logger:   logger,
		},
	}
}

// ValidStatusTransition reports whether an order may move between two
// lifecycle states. Transitions are monotonic: delivered and cancelled are
// terminal, and cancellation is reachable from everything non-terminal.
func ValidStatusTransition(from, to string) bool {
	allowed := map[string][]string{
		models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
		models.OrderStatusConfirmed: {models.OrderStatusPreparing, models.OrderStatusCancelled},
		models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
		models.OrderStatusReady:     {models.OrderStatusPickedUp, models.OrderStatusCancelled},
		models.OrderStatusPickedUp:  {models.OrderStatusDelivered, models.OrderStatusCancelled},
	}
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateOrder runs the full placement pipeline. The order row is durable
// before settlement starts, so the caller always learns a definitive order
// id and status once persistence succeeded, whatever happens after.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	restaurant, zone, err := s.validator.ValidateOrder(ctx, req.RestaurantID, req.ZoneID, req.Address, len(req.Items))
	if err != nil {
		return nil, err
	}

	pricing, err := s.pricer.Quote(ctx, req.Items, restaurant, req.Address, req.CouponCode)
	if err != nil {
		return nil, err
	}

	method := NormalizePaymentMethod(req.PaymentMethod)
	order := &models.Order{
		OrderNumber:    newOrderNumber(),
		UserID:         req.UserID,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		ZoneID:         zone.ID,
		Address:        datatypes.NewJSONType(req.Address),
		Pricing:        *pricing,
		PaymentMethod:  string(method),
		PaymentStatus:  models.PaymentStatusPending,
		Status:         models.OrderStatusPending,
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Addons:   it.Addons,
		})
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, internalErr("failed to save order", err)
	}

	result, err := s.deps.settlerFor(method).Settle(ctx, order)
	if err != nil {
		// The pending order row stands; the caller can retry settlement
		// (gateway) or fund the wallet and re-order.
		return &CreateOrderResult{Order: order}, err
	}

	if result.Confirmed {
		s.postConfirm(ctx, order, restaurant)
	}
	return &CreateOrderResult{Order: order, GatewayIntent: result.GatewayIntent}, nil
}

// VerifyPayment completes a gateway order once the client returns with the
// gateway's signature proof. Restaurant visibility is deliberately deferred
// to this point: the kitchen hears about the order only after capture.
func (s *OrderService) VerifyPayment(ctx context.Context, orderID uint, req VerifyPaymentRequest) (*models.Order, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusCompleted {
		return order, nil
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, conflictErr("order %s is cancelled", order.OrderNumber)
	}
	if order.GatewayOrderID == "" || order.GatewayOrderID != req.GatewayOrderID {
		return nil, validationErr("gateway order reference does not match")
	}
	if s.deps.gateway == nil {
		return nil, upstreamErr("payment gateway is not configured", nil)
	}

	if !s.deps.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		err := s.store.Update(ctx, order, map[string]any{"payment_status": models.PaymentStatusFailed})
		if err != nil {
			s.logger.Error("failed to mark payment failed", zap.Uint("order_id", order.ID), zap.Error(err))
		}
		order.PaymentStatus = models.PaymentStatusFailed
		s.deps.recordPayment(ctx, order, models.PaymentStatusFailed, "invalid gateway signature")
		// The order itself stays pending; a fresh payment attempt may follow.
		return nil, validationErr("payment signature verification failed")
	}

	order.GatewayPaymentID = req.GatewayPaymentID
	if err := s.store.Update(ctx, order, map[string]any{"gateway_payment_id": req.GatewayPaymentID}); err != nil {
		s.logger.Warn("failed to save gateway payment id", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	s.deps.recordPayment(ctx, order, models.PaymentStatusCompleted, "gateway signature verified")
	if err := s.deps.confirmOrder(ctx, order, models.PaymentStatusCompleted); err != nil {
		s.logger.Error("order confirm failed after gateway capture, needs reconciliation",
			zap.Uint("order_id", order.ID), zap.Error(err))
		return nil, internalErr("order confirmation failed after payment capture", err)
	}

	if restaurant, err := s.store.Restaurant(ctx, order.RestaurantID); err == nil && restaurant != nil {
		s.postConfirm(ctx, order, restaurant)
	} else {
		s.postConfirm(ctx, order, nil)
	}
	return order, nil
}

// Cancel marks an order cancelled. Paid methods get a deferred,
// admin-approved refund request; cash orders captured nothing.
func (s *OrderService) Cancel(ctx context.Context, orderID uint, reason, actor string) (*models.Order, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, conflictErr("order %s is already cancelled", order.OrderNumber)
	}
	if order.Status == models.OrderStatusDelivered {
		return nil, conflictErr("a delivered order cannot be cancelled")
	}

	now := time.Now()
	err = s.store.Update(ctx, order, map[string]any{
		"status":        models.OrderStatusCancelled,
		"cancel_reason": reason,
		"cancelled_by":  actor,
		"cancelled_at":  now,
	})
	if err != nil {
		return nil, internalErr("failed to cancel order", err)
	}
	order.Status = models.OrderStatusCancelled
	order.CancelReason = reason
	order.CancelledBy = actor
	order.CancelledAt = &now

	method := PaymentMethod(order.PaymentMethod)
	if method == MethodWallet || method == MethodGateway {
		refund := &models.RefundRequest{
			OrderID: order.ID,
			Amount:  order.Pricing.Total,
			Method:  order.PaymentMethod,
			Status:  models.RefundStatusPendingApproval,
			Reason:  reason,
		}
		if err := s.store.CreateRefund(ctx, refund); err != nil {
			// The cancellation stands; the refund queue is repaired offline.
			s.logger.Error("failed to queue refund request",
				zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

// UpdateStatus applies a restaurant/delivery lifecycle event, guarded by the
// monotonic transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, newStatus string) (*models.Order, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ValidStatusTransition(order.Status, newStatus) {
		return nil, conflictErr("cannot move order from %s to %s", order.Status, newStatus)
	}
	if err := s.store.Update(ctx, order, map[string]any{"status": newStatus}); err != nil {
		return nil, internalErr("failed to update order status", err)
	}
	order.Status = newStatus
	return order, nil
}

// Quote prices a cart without placing an order.
func (s *OrderService) Quote(ctx context.Context, req CreateOrderRequest) (*models.Pricing, error) {
	if len(req.Items) == 0 {
		return nil, validationErr("cart must contain at least one item")
	}
	restaurant, err := s.validator.ResolveRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	return s.pricer.Quote(ctx, req.Items, restaurant, req.Address, req.CouponCode)
}

func (s *OrderService) GetByID(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, internalErr("failed to fetch order", err)
	}
	if order == nil {
		return nil, notFoundErr("order %d not found", orderID)
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID uint, sortOrder string) ([]models.Order, error) {
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	orders, err := s.store.ListByUser(ctx, userID, sortOrder)
	if err != nil {
		return nil, internalErr("failed to fetch orders", err)
	}
	return orders, nil
}

type ListParams struct {
	Page   int
	Limit  int
	Sort   string
	Status string
}

func (s *OrderService) List(ctx context.Context, params ListParams) ([]models.Order, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 15
	}
	if params.Sort != "asc" && params.Sort != "desc" {
		params.Sort = "desc"
	}

	orders, count, err := s.store.List(ctx, params)
	if err != nil {
		return nil, 0, internalErr("failed to fetch orders", err)
	}
	return orders, count, nil
}

// postConfirm runs the side effects that follow confirmation: initial ETA,
// restaurant notification, settlement/escrow. Each is caught and logged;
// none may unwind the committed order or payment state.
func (s *OrderService) postConfirm(ctx context.Context, order *models.Order, restaurant *models.Restaurant) {
	if s.eta != nil && restaurant != nil {
		if loc := restaurant.Location(); loc != nil {
			if addr := order.Address.Data(); addr.Point != nil {
				if win, err := s.eta.InitialETA(ctx, *loc, *addr.Point); err != nil {
					s.logger.Warn("eta calculation failed", zap.Uint("order_id", order.ID), zap.Error(err))
				} else if win != nil {
					err := s.store.Update(ctx, order, map[string]any{
						"eta_min_minutes": win.MinMinutes,
						"eta_max_minutes": win.MaxMinutes,
					})
					if err != nil {
						s.logger.Warn("failed to save eta", zap.Uint("order_id", order.ID), zap.Error(err))
					} else {
						order.EtaMinMinutes = win.MinMinutes
						order.EtaMaxMinutes = win.MaxMinutes
					}
				}
			}
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewOrder(ctx, order, order.PaymentMethod); err != nil {
			s.logger.Warn("restaurant notification failed",
				zap.Uint("order_id", order.ID), zap.Uint("restaurant_id", order.RestaurantID), zap.Error(err))
		}
	}

	if s.escrow != nil && order.PaymentStatus == models.PaymentStatusCompleted {
		if err := s.escrow.Record(ctx, order); err != nil {
			s.logger.Warn("settlement recording failed", zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}
}

type gormOrderStore struct {
	db *gorm.DB
}

func (s *gormOrderStore) Create(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *gormOrderStore) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *gormOrderStore) Update(ctx context.Context, order *models.Order, fields map[string]any) error {
	return s.db.WithContext(ctx).Model(order).Updates(fields).Error
}

func (s *gormOrderStore) ListByUser(ctx context.Context, userID uint, sortOrder string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at " + sortOrder).
		Find(&orders).Error
	return orders, err
}

func (s *gormOrderStore) List(ctx context.Context, params ListParams) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.Preload("Items").
		Order("created_at " + params.Sort).
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (s *gormOrderStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

func (s *gormOrderStore) CreateRefund(ctx context.Context, refund *models.RefundRequest) error {
	return s.db.WithContext(ctx).Create(refund).Error
}

func (s *gormOrderStore) Restaurant(ctx context.Context, restaurantID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).First(&restaurant, restaurantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}
