package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/models"
	"github.com/tindora/tindora-api/services"
	"go.uber.org/zap"
)

type FeeSettingsController struct {
	policy *services.PolicyStore
	logger *zap.Logger
}

func NewFeeSettingsController(policy *services.PolicyStore, logger *zap.Logger) *FeeSettingsController {
	return &FeeSettingsController{policy: policy, logger: logger}
}

// CreateFeeSettings activates a new fee policy version. Any previously active
// version is deactivated in the same transaction.
func (c *FeeSettingsController) CreateFeeSettings(ctx *gin.Context) {
	var fs models.FeeSettings
	if err := ctx.ShouldBindJSON(&fs); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}
	fs.IsActive = true

	if err := c.policy.SaveFeeSettings(ctx.Request.Context(), &fs); err != nil {
		sendServiceError(ctx, err, nil)
		return
	}

	c.logger.Info("fee settings activated", zap.Uint("feeSettingsId", fs.ID))
	sendJSONResponse(ctx, http.StatusCreated, "Fee settings saved.", gin.H{"feeSettings": fs})
}

func (c *FeeSettingsController) GetActiveFeeSettings(ctx *gin.Context) {
	fs, err := c.policy.ActiveFeeSettings(ctx.Request.Context())
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	if fs == nil {
		sendErrorResponse(ctx, http.StatusNotFound, "No active fee settings")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Fee settings fetched.", gin.H{"feeSettings": fs})
}
