package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/models"
	"github.com/tindora/tindora-api/services"
	"go.uber.org/zap"
)

type ZoneController struct {
	policy *services.PolicyStore
	logger *zap.Logger
}

func NewZoneController(policy *services.PolicyStore, logger *zap.Logger) *ZoneController {
	return &ZoneController{policy: policy, logger: logger}
}

func (c *ZoneController) CreateZone(ctx *gin.Context) {
	var zone models.Zone
	if err := ctx.ShouldBindJSON(&zone); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	if err := c.policy.SaveZone(ctx.Request.Context(), &zone); err != nil {
		sendServiceError(ctx, err, nil)
		return
	}

	c.logger.Info("zone saved", zap.Uint("zoneId", zone.ID), zap.String("name", zone.Name))
	sendJSONResponse(ctx, http.StatusCreated, "Zone saved.", gin.H{"zone": zone})
}

func (c *ZoneController) GetZones(ctx *gin.Context) {
	zones, err := c.policy.ListZones(ctx.Request.Context())
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Zones fetched.", gin.H{"zones": zones})
}
