package handlers

import (
	"errors"
	"net/http"

	"merch_store_backend/internal/services"
	"merch_store_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error to its HTTP response. Errors that
// carry no kind are logged and reported as a generic 500.
func respondServiceError(c *gin.Context, op string, err error) {
	var stockErr *services.StockError
	if errors.As(err, &stockErr) {
		utils.LogWarn(op+": order rejected", map[string]interface{}{"reason": stockErr.Error()})
		code := utils.ErrCodeInsufficientStock
		if stockErr.Missing {
			code = utils.ErrCodeBadRequest
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, code, stockErr.Error(), gin.H{
			"itemId":    stockErr.ItemID,
			"sizeId":    stockErr.SizeID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		}))
		return
	}

	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password", nil))
		return
	}

	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch {
		case errors.Is(svcErr.Kind, services.ErrValidation):
			code := utils.ErrCodeBadRequest
			if svcErr.Details != nil {
				code = utils.ErrCodeValidationFailed
			}
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, code, svcErr.Message, svcErr.Details))
			return
		case errors.Is(svcErr.Kind, services.ErrNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, svcErr.Message, svcErr.Details))
			return
		case errors.Is(svcErr.Kind, services.ErrConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, svcErr.Message, svcErr.Details))
			return
		}
	}

	utils.LogError(err, op+": unexpected error")
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error", nil))
}

// bindJSON binds the request body and answers 400 with field details on failure.
func bindJSON(c *gin.Context, op string, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogWarn(op+": invalid request payload", map[string]interface{}{"error": err.Error()})
		utils.RespondValidationFailed(c, utils.BindingErrorDetails(err))
		return false
	}
	return true
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToPositiveID(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+name+" format", err.Error()))
		return 0, false
	}
	return id, true
}
