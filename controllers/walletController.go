package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/services"
	"go.uber.org/zap"
)

type WalletController struct {
	ledger *services.WalletLedger
	logger *zap.Logger
}

func NewWalletController(ledger *services.WalletLedger, logger *zap.Logger) *WalletController {
	return &WalletController{ledger: ledger, logger: logger}
}

func (c *WalletController) GetWallet(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	wallet, err := c.ledger.Wallet(ctx.Request.Context(), uint(userID))
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Wallet fetched.", gin.H{"wallet": wallet})
}

func (c *WalletController) CreditWallet(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	var body struct {
		Amount int64  `json:"amount" binding:"required"`
		Note   string `json:"note"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	txn, err := c.ledger.Credit(ctx.Request.Context(), uint(userID), body.Amount, body.Note)
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}

	c.logger.Info("wallet credited",
		zap.Uint("userId", uint(userID)),
		zap.Int64("amount", body.Amount))
	sendJSONResponse(ctx, http.StatusOK, "Wallet credited.", gin.H{"transaction": txn})
}
