package balance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hr-ledger/internal/balance"
	balanceerrors "hr-ledger/internal/balance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeBalanceService struct {
	upsertFn         func(ctx context.Context, actor balance.Actor, employeeID string, year int, req balance.UpsertBalanceRequest) (balance.BalanceResponse, error)
	bulkInitializeFn func(ctx context.Context, actor balance.Actor, year int, defaults balance.BulkDefaultSettings) (balance.BulkInitializeResult, error)
	buildYearViewFn  func(ctx context.Context, year int) (balance.YearViewResponse, error)
	summaryFn        func(ctx context.Context, employeeID string, year int) (balance.BalanceSummary, error)
}

func (f *fakeBalanceService) Upsert(ctx context.Context, actor balance.Actor, employeeID string, year int, req balance.UpsertBalanceRequest) (balance.BalanceResponse, error) {
	return f.upsertFn(ctx, actor, employeeID, year, req)
}

func (f *fakeBalanceService) BulkInitialize(ctx context.Context, actor balance.Actor, year int, defaults balance.BulkDefaultSettings) (balance.BulkInitializeResult, error) {
	return f.bulkInitializeFn(ctx, actor, year, defaults)
}

func (f *fakeBalanceService) BuildYearView(ctx context.Context, year int) (balance.YearViewResponse, error) {
	return f.buildYearViewFn(ctx, year)
}

func (f *fakeBalanceService) Summary(ctx context.Context, employeeID string, year int) (balance.BalanceSummary, error) {
	return f.summaryFn(ctx, employeeID, year)
}

type handlerEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func setupBalanceRouter(svc balance.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := balance.NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id_validated", "11111111-1111-1111-1111-111111111111")
		c.Set("role", balance.RoleAdmin)
		c.Next()
	})
	r.GET("/balances/year/:year", h.GetYearView)
	r.GET("/balances/employee/:employeeId/year/:year/summary", h.GetSummary)
	r.PUT("/balances/employee/:employeeId/year/:year", h.Upsert)
	r.POST("/balances/year/:year/bulk", h.BulkInitialize)
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, handlerEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env handlerEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestBalanceHandler_Upsert_PassesActorAndBody(t *testing.T) {
	var gotActor balance.Actor
	var gotEmployee string
	var gotYear int
	svc := &fakeBalanceService{
		upsertFn: func(ctx context.Context, actor balance.Actor, employeeID string, year int, req balance.UpsertBalanceRequest) (balance.BalanceResponse, error) {
			gotActor = actor
			gotEmployee = employeeID
			gotYear = year
			return balance.BalanceResponse{EmployeeID: employeeID, Year: year, VacationDaysTotal: *req.VacationDaysTotal}, nil
		},
	}
	r := setupBalanceRouter(svc)

	employeeID := uuid.New().String()
	w, env := performJSON(t, r, http.MethodPut, "/balances/employee/"+employeeID+"/year/2026", gin.H{
		"vacation_days_total": 30,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Ok)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", gotActor.ID)
	assert.Equal(t, balance.RoleAdmin, gotActor.Role)
	assert.Equal(t, employeeID, gotEmployee)
	assert.Equal(t, 2026, gotYear)

	var resp balance.BalanceResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 30.0, resp.VacationDaysTotal)
}

func TestBalanceHandler_Upsert_ValidationErrorRendered(t *testing.T) {
	svc := &fakeBalanceService{
		upsertFn: func(ctx context.Context, actor balance.Actor, employeeID string, year int, req balance.UpsertBalanceRequest) (balance.BalanceResponse, error) {
			return balance.BalanceResponse{}, balanceerrors.NegativeField("sick_days_used")
		},
	}
	r := setupBalanceRouter(svc)

	w, env := performJSON(t, r, http.MethodPut, "/balances/employee/"+uuid.New().String()+"/year/2026", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Ok)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Message, "sick_days_used")
}

func TestBalanceHandler_Upsert_BadYearParam(t *testing.T) {
	svc := &fakeBalanceService{}
	r := setupBalanceRouter(svc)

	w, env := performJSON(t, r, http.MethodPut, "/balances/employee/"+uuid.New().String()+"/year/abc", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestBalanceHandler_GetSummary_NotFound(t *testing.T) {
	svc := &fakeBalanceService{
		summaryFn: func(ctx context.Context, employeeID string, year int) (balance.BalanceSummary, error) {
			return balance.BalanceSummary{}, balanceerrors.ErrEmployeeNotFound
		},
	}
	r := setupBalanceRouter(svc)

	w, env := performJSON(t, r, http.MethodGet, "/balances/employee/"+uuid.New().String()+"/year/2026/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Ok)
}

func TestBalanceHandler_GetYearView_OK(t *testing.T) {
	svc := &fakeBalanceService{
		buildYearViewFn: func(ctx context.Context, year int) (balance.YearViewResponse, error) {
			return balance.YearViewResponse{Year: year, TotalEmployees: 2}, nil
		},
	}
	r := setupBalanceRouter(svc)

	w, env := performJSON(t, r, http.MethodGet, "/balances/year/2026", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var view balance.YearViewResponse
	assert.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2026, view.Year)
	assert.Equal(t, 2, view.TotalEmployees)
}

func TestBalanceHandler_BulkInitialize_PartialFailureRendersMultiStatus(t *testing.T) {
	failedID := uuid.New().String()
	svc := &fakeBalanceService{
		bulkInitializeFn: func(ctx context.Context, actor balance.Actor, year int, defaults balance.BulkDefaultSettings) (balance.BulkInitializeResult, error) {
			return balance.BulkInitializeResult{Year: year, EmployeesProcessed: 4}, &balanceerrors.PartialFailureError{
				Processed: 4,
				Failures: []balanceerrors.BulkFailure{
					{EmployeeID: failedID, Reason: "connection reset"},
				},
			}
		},
	}
	r := setupBalanceRouter(svc)

	w, env := performJSON(t, r, http.MethodPost, "/balances/year/2026/bulk", gin.H{
		"default_settings": gin.H{"vacation_days_total": 25},
	})

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.False(t, env.Ok)
	assert.Equal(t, "PARTIAL_FAILURE", env.Error.Code)

	var details struct {
		EmployeesProcessed int                         `json:"employees_processed"`
		Failures           []balanceerrors.BulkFailure `json:"failures"`
	}
	assert.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.Equal(t, 4, details.EmployeesProcessed)
	assert.Len(t, details.Failures, 1)
	assert.Equal(t, failedID, details.Failures[0].EmployeeID)
}

func TestBalanceHandler_BulkInitialize_RejectsMissingDefaults(t *testing.T) {
	called := false
	svc := &fakeBalanceService{
		bulkInitializeFn: func(ctx context.Context, actor balance.Actor, year int, defaults balance.BulkDefaultSettings) (balance.BulkInitializeResult, error) {
			called = true
			return balance.BulkInitializeResult{}, nil
		},
	}
	r := setupBalanceRouter(svc)

	w, env := performJSON(t, r, http.MethodPost, "/balances/year/2026/bulk", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.False(t, called)
}
