package services

import (
	"context"

	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EscrowRecorder runs after payment confirmation: it computes the
// restaurant/platform split and marks the captured funds as held. Callers
// treat failures as non-fatal; money state never depends on this step.
type EscrowRecorder struct {
	db     *gorm.DB
	policy *PolicyStore
	client EscrowClient
	logger *zap.Logger
}

func NewEscrowRecorder(db *gorm.DB, policy *PolicyStore, client EscrowClient, logger *zap.Logger) *EscrowRecorder {
	return &EscrowRecorder{db: db, policy: policy, client: client, logger: logger}
}

// ComputeSplit divides a captured total: the restaurant earns the discounted
// item value minus platform commission; the platform keeps the rest (fees,
// tax, commission).
func ComputeSplit(pricing models.Pricing, commissionRate float64) (restaurantAmount, platformAmount, commission int64) {
	net := pricing.Subtotal - pricing.Discount
	commission = roundUnit(float64(net) * commissionRate / 100)
	restaurantAmount = net - commission
	platformAmount = pricing.Total - restaurantAmount
	return restaurantAmount, platformAmount, commission
}

// Record persists the settlement for a confirmed order and asks the escrow
// collaborator to hold the funds.
func (r *EscrowRecorder) Record(ctx context.Context, order *models.Order) error {
	var rate float64
	if fs, err := r.policy.ActiveFeeSettings(ctx); err != nil {
		r.logger.Warn("fee settings unreadable, settling with zero commission", zap.Error(err))
	} else if fs != nil {
		rate = fs.CommissionRate
	}

	restaurantAmount, platformAmount, commission := ComputeSplit(order.Pricing, rate)
	settlement := models.Settlement{
		OrderID:          order.ID,
		RestaurantID:     order.RestaurantID,
		RestaurantAmount: restaurantAmount,
		PlatformAmount:   platformAmount,
		CommissionAmount: commission,
		Status:           models.SettlementStatusHeld,
	}
	err := r.db.WithContext(ctx).
		Where(models.Settlement{OrderID: order.ID}).
		FirstOrCreate(&settlement).Error
	if err != nil {
		return internalErr("failed to record settlement", err)
	}

	if r.client != nil {
		if err := r.client.HoldEscrow(ctx, order.OrderNumber, order.UserID, order.Pricing.Total); err != nil {
			r.logger.Warn("escrow hold failed",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}
	return nil
}
