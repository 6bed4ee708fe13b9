package attendance

import (
	"net/http"

	"hr-ledger/internal/balance"
	"hr-ledger/internal/shared/apperror"
	"hr-ledger/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

// GetStatus serves the caller's own status card. ADMIN and MANAGER may
// ask for another employee via ?employee_id=; everyone else only sees
// their own.
func (h *Handler) GetStatus(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	if requested := c.Query("employee_id"); requested != "" && requested != employeeID {
		role := c.GetString("role")
		if role != balance.RoleAdmin && role != balance.RoleManager {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "only ADMIN or MANAGER may view another employee's status", nil)
			return
		}
		employeeID = requested
	}
	if employeeID == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "employee_id is required", nil)
		return
	}

	resp, err := h.service.CurrentStatus(c.Request.Context(), employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("attendance status request failed",
			zap.String("employee_id", employeeID),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
