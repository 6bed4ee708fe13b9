package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hr-ledger/internal/attendance"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeStatusService struct {
	currentStatusFn func(ctx context.Context, employeeID string) (attendance.StatusResponse, error)
}

func (f *fakeStatusService) CurrentStatus(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	return f.currentStatusFn(ctx, employeeID)
}

func setupStatusRouter(svc attendance.Service, callerID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := attendance.NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("employee_id", callerID)
		c.Set("role", role)
		c.Next()
	})
	r.GET("/attendance/status", h.GetStatus)
	return r
}

func TestAttendanceHandler_GetStatus_ServesOwnCard(t *testing.T) {
	callerID := uuid.New().String()
	var asked string
	svc := &fakeStatusService{currentStatusFn: func(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
		asked = employeeID
		return attendance.StatusResponse{EmployeeID: employeeID, Presence: attendance.PresenceAbsent}, nil
	}}
	r := setupStatusRouter(svc, callerID, "EMPLOYEE")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, callerID, asked)
}

func TestAttendanceHandler_GetStatus_EmployeeCannotReadOthers(t *testing.T) {
	callerID := uuid.New().String()
	called := false
	svc := &fakeStatusService{currentStatusFn: func(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
		called = true
		return attendance.StatusResponse{}, nil
	}}
	r := setupStatusRouter(svc, callerID, "EMPLOYEE")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/status?employee_id="+uuid.New().String(), nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)

	var env struct {
		Ok    bool `json:"ok"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Ok)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestAttendanceHandler_GetStatus_ManagerReadsOthers(t *testing.T) {
	otherID := uuid.New().String()
	var asked string
	svc := &fakeStatusService{currentStatusFn: func(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
		asked = employeeID
		return attendance.StatusResponse{EmployeeID: employeeID}, nil
	}}
	r := setupStatusRouter(svc, uuid.New().String(), "MANAGER")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/status?employee_id="+otherID, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, otherID, asked)
}

func TestAttendanceHandler_GetStatus_OwnIDInQueryAllowed(t *testing.T) {
	callerID := uuid.New().String()
	var asked string
	svc := &fakeStatusService{currentStatusFn: func(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
		asked = employeeID
		return attendance.StatusResponse{EmployeeID: employeeID}, nil
	}}
	r := setupStatusRouter(svc, callerID, "EMPLOYEE")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/status?employee_id="+callerID, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, callerID, asked)
}
