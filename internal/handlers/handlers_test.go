package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitvs/coaching-service/internal/auth"
	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/services"
	"github.com/fitvs/coaching-service/internal/utils"
)

const testSecret = "handler-test-secret"

var (
	professorCaller = models.Identity{UserID: "a1b2c3d4-0000-4000-8000-000000000001", Email: "carla@example.com", Role: models.RoleProfessor}
	studentCaller   = models.Identity{UserID: "b1b2c3d4-0000-4000-8000-000000000001", Email: "ana@example.com", Role: models.RoleStudent}
)

// ===== stubs =====

type stubServices struct {
	assignResp *services.AssignStudentsResponse
	err        error
	health     error

	gotCaller models.Identity
	gotReq    *models.AssignStudentsRequest
}

func (s *stubServices) AssignStudents(_ context.Context, caller models.Identity, req *models.AssignStudentsRequest) (*services.AssignStudentsResponse, error) {
	s.gotCaller, s.gotReq = caller, req
	return s.assignResp, s.err
}

func (s *stubServices) ListStudents(_ context.Context, caller models.Identity) ([]models.StudentWithProgress, error) {
	s.gotCaller = caller
	if s.err != nil {
		return nil, s.err
	}
	return []models.StudentWithProgress{{UserResponse: models.UserResponse{ID: studentCaller.UserID, Name: "Ana"}}}, nil
}

func (s *stubServices) ListUnassigned(_ context.Context, caller models.Identity) ([]models.UserResponse, error) {
	s.gotCaller = caller
	return []models.UserResponse{}, s.err
}

func (s *stubServices) ExportStudents(_ context.Context, caller models.Identity) ([]byte, error) {
	s.gotCaller = caller
	return []byte("xlsx-bytes"), s.err
}

func (s *stubServices) ReconcileRoster(_ context.Context, caller models.Identity) (*services.ReconcileRosterResponse, error) {
	s.gotCaller = caller
	return &services.ReconcileRosterResponse{Added: 2, Removed: 1}, s.err
}

func (s *stubServices) GetDashboard(_ context.Context, caller models.Identity) (*services.DashboardResponse, error) {
	s.gotCaller = caller
	if s.err != nil {
		return nil, s.err
	}
	return &services.DashboardResponse{Role: caller.Role, Notifications: []*models.Notification{}}, nil
}

func (s *stubServices) GetProfile(_ context.Context, caller models.Identity) (*models.UserResponse, error) {
	s.gotCaller = caller
	if s.err != nil {
		return nil, s.err
	}
	return &models.UserResponse{ID: caller.UserID, Email: caller.Email, Role: caller.Role}, nil
}

func (s *stubServices) ListProfessors(_ context.Context, caller models.Identity) ([]models.UserResponse, error) {
	return []models.UserResponse{{ID: professorCaller.UserID, Name: "Carla"}}, s.err
}

func (s *stubServices) GetStudentProfessor(_ context.Context, caller models.Identity) (*services.StudentProfessorResponse, error) {
	s.gotCaller = caller
	return &services.StudentProfessorResponse{Student: models.UserResponse{ID: caller.UserID}}, s.err
}

func (s *stubServices) ListStudentWorkouts(_ context.Context, caller models.Identity) ([]*models.Workout, error) {
	s.gotCaller = caller
	return []*models.Workout{}, s.err
}

func (s *stubServices) Assignment() services.AssignmentService { return s }
func (s *stubServices) Roster() services.RosterService         { return s }
func (s *stubServices) Dashboard() services.DashboardService   { return s }
func (s *stubServices) Directory() services.DirectoryService   { return s }
func (s *stubServices) Initialize(context.Context) error       { return nil }
func (s *stubServices) HealthCheck(context.Context) error      { return s.health }
func (s *stubServices) Shutdown(context.Context) error         { return nil }

// ===== helpers =====

func newTestRouter(t *testing.T, stub *stubServices) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(stub, auth.NewJWTAuthenticator(testSecret, time.Hour), logger).SetupRoutes(router)
	return router
}

func tokenFor(t *testing.T, identity models.Identity) string {
	t.Helper()
	token, err := auth.NewJWTAuthenticator(testSecret, time.Hour).Issue(identity)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, router *gin.Engine, method, path string, identity *models.Identity, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, *identity))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// ===== tests =====

func TestAuthentication(t *testing.T) {
	router := newTestRouter(t, &stubServices{})

	t.Run("missing header", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/v1/dashboard", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp ErrorResponse
		decode(t, w, &resp)
		assert.False(t, resp.Success)
		assert.Equal(t, "authorization header missing", resp.Details)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/v1/dashboard", &studentCaller, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoleGuards(t *testing.T) {
	router := newTestRouter(t, &stubServices{})

	tests := []struct {
		method   string
		path     string
		identity models.Identity
		want     int
	}{
		{http.MethodGet, "/api/v1/professor/students", studentCaller, http.StatusForbidden},
		{http.MethodGet, "/api/v1/students/unassigned", studentCaller, http.StatusForbidden},
		{http.MethodPost, "/api/v1/professor/roster/reconcile", studentCaller, http.StatusForbidden},
		{http.MethodGet, "/api/v1/student/workouts", professorCaller, http.StatusForbidden},
		{http.MethodGet, "/api/v1/student/professor", professorCaller, http.StatusForbidden},
		{http.MethodGet, "/api/v1/professor/students", professorCaller, http.StatusOK},
		{http.MethodGet, "/api/v1/students/unassigned", professorCaller, http.StatusOK},
		{http.MethodGet, "/api/v1/student/workouts", studentCaller, http.StatusOK},
		{http.MethodGet, "/api/v1/professors", studentCaller, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s as %s", tt.method, tt.path, tt.identity.Role), func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, &tt.identity, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAssignStudentsHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubServices{assignResp: &services.AssignStudentsResponse{Success: true, AssignedCount: 2}}
		router := newTestRouter(t, stub)

		w := do(t, router, http.MethodPost, "/api/v1/professor/assign-students", &professorCaller,
			`{"student_ids":["b1b2c3d4-0000-4000-8000-000000000001","b1b2c3d4-0000-4000-8000-000000000002"]}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp services.AssignStudentsResponse
		decode(t, w, &resp)
		assert.Equal(t, services.AssignStudentsResponse{Success: true, AssignedCount: 2}, resp)

		assert.Equal(t, professorCaller, stub.gotCaller)
		require.NotNil(t, stub.gotReq)
		assert.Len(t, stub.gotReq.StudentIDs, 2)
	})

	t.Run("malformed json", func(t *testing.T) {
		stub := &stubServices{}
		router := newTestRouter(t, stub)

		w := do(t, router, http.MethodPost, "/api/v1/professor/assign-students", &professorCaller, `{"student_ids":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, stub.gotReq)
	})

	t.Run("validation failure carries field details", func(t *testing.T) {
		stub := &stubServices{err: services.NewValidationError("student_ids[0]", "must be a valid id", "x")}
		router := newTestRouter(t, stub)

		w := do(t, router, http.MethodPost, "/api/v1/professor/assign-students", &professorCaller, `{"student_ids":["x"]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Message string `json:"message"`
			Details []struct {
				Field string `json:"field"`
			} `json:"details"`
		}
		decode(t, w, &resp)
		assert.Equal(t, "Validation failed", resp.Message)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "student_ids[0]", resp.Details[0].Field)
	})
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: bad", services.ErrValidationFailed), http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("%w: not a professor", services.ErrUnauthorized), http.StatusUnauthorized},
		{"forbidden", services.NewPermissionError("u", "students", "list", "nope"), http.StatusForbidden},
		{"not found", fmt.Errorf("%w: user", services.ErrNotFound), http.StatusNotFound},
		{"storage", fmt.Errorf("%w: list: boom", services.ErrStorage), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &stubServices{err: tt.err})

			w := do(t, router, http.MethodGet, "/api/v1/auth/profile", &studentCaller, "")
			assert.Equal(t, tt.want, w.Code)

			var resp ErrorResponse
			decode(t, w, &resp)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}

func TestExportStudentsHandler(t *testing.T) {
	router := newTestRouter(t, &stubServices{})

	w := do(t, router, http.MethodGet, "/api/v1/professor/students/export", &professorCaller, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"students-")
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

func TestReconcileAndStudentRoutes(t *testing.T) {
	stub := &stubServices{}
	router := newTestRouter(t, stub)

	w := do(t, router, http.MethodPost, "/api/v1/professor/roster/reconcile", &professorCaller, "")
	require.Equal(t, http.StatusOK, w.Code)
	var reconciled services.ReconcileRosterResponse
	decode(t, w, &reconciled)
	assert.Equal(t, services.ReconcileRosterResponse{Added: 2, Removed: 1}, reconciled)

	w = do(t, router, http.MethodGet, "/api/v1/student/professor", &studentCaller, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, studentCaller, stub.gotCaller)
	assert.Contains(t, w.Body.String(), `"professor":null`)
}

func TestHealthAndMiddleware(t *testing.T) {
	stub := &stubServices{}
	router := newTestRouter(t, stub)

	w := do(t, router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	stub.health = errors.New("db down")
	w = do(t, router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/dashboard", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_RestrictedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://app.example.com"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin string
		want   string
	}{
		{"https://app.example.com", "https://app.example.com"},
		{"https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
		})
	}
}
