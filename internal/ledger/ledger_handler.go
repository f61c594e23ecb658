package ledger

import (
	"net/http"
	"strconv"

	"leaveflow/internal/shared/apperror"
	"leaveflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ledger.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetBalance serves the reconciled ledger. An optional fiscal_year
// query selects a past year; the default is the active one.
func (h *Handler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.Param("employeeId")
	if employeeID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "employee id is required", nil)
		return
	}

	if yearParam := c.Query("fiscal_year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "fiscal_year must be a number", nil)
			return
		}
		resp, err := h.service.GetBalanceForYear(ctx, employeeID, year)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
		return
	}

	resp, err := h.service.GetBalance(ctx, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
