package balance

import (
	"errors"
	"net/http"
	"strconv"

	balanceerrors "hr-ledger/internal/balance/errors"
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
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFromContext(c *gin.Context) Actor {
	actorID := c.GetString("user_id_validated")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return Actor{
		ID:   actorID,
		Role: c.GetString("role"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var partial *balanceerrors.PartialFailureError
	if errors.As(err, &partial) {
		h.logger.Warn("balance bulk partially failed",
			zap.Int("processed", partial.Processed),
			zap.Int("failed", len(partial.Failures)),
		)
		response.Error(c, http.StatusMultiStatus, apperror.CodePartialFailure, partial.Error(), gin.H{
			"employees_processed": partial.Processed,
			"failures":            partial.Failures,
		})
		return
	}

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

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "year must be a positive integer", nil)
		return 0, false
	}
	return year, true
}

func (h *Handler) GetYearView(c *gin.Context) {
	ctx := c.Request.Context()
	year, ok := yearParam(c)
	if !ok {
		return
	}

	resp, err := h.service.BuildYearView(ctx, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSummary(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.Param("employeeId")
	year, ok := yearParam(c)
	if !ok {
		return
	}

	resp, err := h.service.Summary(ctx, employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Upsert(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.Param("employeeId")
	actor := actorFromContext(c)
	year, ok := yearParam(c)
	if !ok {
		return
	}
	h.logger.Debug("http upsert balance",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.String("actor_id", actor.ID),
	)

	var req UpsertBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http upsert balance validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Upsert(ctx, actor, employeeID, year, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkInitialize(c *gin.Context) {
	ctx := c.Request.Context()
	actor := actorFromContext(c)
	year, ok := yearParam(c)
	if !ok {
		return
	}

	var req BulkInitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http bulk initialize validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.BulkInitialize(ctx, actor, year, req.DefaultSettings)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
