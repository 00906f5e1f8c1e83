package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/services"
)

const (
	msgInvalidRequestBody  = "Invalid request body"
	msgInternalServerError = "Internal server error"
)

// Every response uses the same envelope so clients never branch on shape.
func sendJSONResponse(ctx *gin.Context, status int, message string, data gin.H) {
	ctx.JSON(status, gin.H{
		"success": status < http.StatusBadRequest,
		"message": message,
		"data":    data,
	})
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, message, nil)
}

// sendServiceError maps the domain error taxonomy onto HTTP statuses:
// validation 400, eligibility 403, not found 404, conflicts 409, everything
// else 500. Extra data (an order id that already persisted, say) rides along.
func sendServiceError(ctx *gin.Context, err error, data gin.H) {
	status, message := statusForError(err)
	sendJSONResponse(ctx, status, message, data)
}

func statusForError(err error) (int, string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case services.KindValidation:
			return http.StatusBadRequest, svcErr.Message
		case services.KindEligibility:
			return http.StatusForbidden, svcErr.Message
		case services.KindNotFound:
			return http.StatusNotFound, svcErr.Message
		case services.KindConflict:
			return http.StatusConflict, svcErr.Message
		}
		return http.StatusInternalServerError, svcErr.Message
	}
	return http.StatusInternalServerError, msgInternalServerError
}
