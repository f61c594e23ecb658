package officer

import (
	"net/http"

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
	l := zap.L().Named("officer.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("officer.handler")
	}
	return &Handler{service: service, logger: l}
}

// GetReportingOfficer resolves the approver for an employee. An empty
// reporting_officer_id means the chain was exhausted.
func (h *Handler) GetReportingOfficer(c *gin.Context) {
	employeeID := c.Param("employeeId")

	officerID, err := h.service.GetReportingOfficer(c.Request.Context(), employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("resolve reporting officer failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"employee_id":          employeeID,
		"reporting_officer_id": officerID,
	}, nil)
}
