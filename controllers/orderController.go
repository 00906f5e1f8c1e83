package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/services"
	"go.uber.org/zap"
)

type OrderController struct {
	orders *services.OrderService
	logger *zap.Logger
}

func NewOrderController(orders *services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

func (c *OrderController) CreateOrder(ctx *gin.Context) {
	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Info("order request rejected", zap.Error(err))
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	result, err := c.orders.CreateOrder(ctx.Request.Context(), req)
	if err != nil {
		// When the pending order persisted before settlement failed, the
		// client still learns its id and status.
		var data gin.H
		if result != nil && result.Order != nil {
			data = gin.H{"orderId": result.Order.ID, "orderNumber": result.Order.OrderNumber, "status": result.Order.Status}
		}
		sendServiceError(ctx, err, data)
		return
	}

	data := gin.H{
		"orderId":     result.Order.ID,
		"orderNumber": result.Order.OrderNumber,
		"status":      result.Order.Status,
		"pricing":     result.Order.Pricing,
	}
	if result.GatewayIntent != nil {
		data["gatewayIntent"] = result.GatewayIntent
	}
	sendJSONResponse(ctx, http.StatusCreated, "Order created successfully.", data)
}

func (c *OrderController) VerifyPayment(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var req services.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	order, err := c.orders.VerifyPayment(ctx.Request.Context(), uint(orderID), req)
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Payment verified.", gin.H{
		"orderId":       order.ID,
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
	})
}

func (c *OrderController) CancelOrder(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var body struct {
		Reason string `json:"reason"`
		Actor  string `json:"actor"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}
	if body.Actor == "" {
		body.Actor = "customer"
	}

	order, err := c.orders.Cancel(ctx.Request.Context(), uint(orderID), body.Reason, body.Actor)
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Order cancelled.", gin.H{
		"orderId": order.ID,
		"status":  order.Status,
	})
}

func (c *OrderController) CalculatePricing(ctx *gin.Context) {
	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	pricing, err := c.orders.Quote(ctx.Request.Context(), req)
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Pricing calculated.", gin.H{"pricing": pricing})
}

func (c *OrderController) GetOrderByID(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, err := c.orders.GetByID(ctx.Request.Context(), uint(orderID))
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Order fetched.", gin.H{"order": order})
}

func (c *OrderController) GetOrdersByCustomer(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	orders, err := c.orders.ListByUser(ctx.Request.Context(), uint(userID), ctx.DefaultQuery("sort", "desc"))
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Orders fetched.", gin.H{"orders": orders})
}

func (c *OrderController) GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))

	orders, count, err := c.orders.List(ctx.Request.Context(), services.ListParams{
		Page:   page,
		Limit:  limit,
		Sort:   ctx.DefaultQuery("sort", "desc"),
		Status: ctx.Query("status"),
	})
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, "Orders fetched.", gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":       count,
			"currentPage": page,
			"limit":       limit,
		},
	})
}

func (c *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	order, err := c.orders.UpdateStatus(ctx.Request.Context(), uint(orderID), body.Status)
	if err != nil {
		sendServiceError(ctx, err, nil)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Order status updated successfully.", gin.H{
		"orderId": order.ID,
		"status":  order.Status,
	})
}
