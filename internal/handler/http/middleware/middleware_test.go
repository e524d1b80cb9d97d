package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(jwtService jwt.Service, roles ...employee.Role) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(AuthRequired(jwtService))
		if len(roles) > 0 {
			r.Use(RequireRoles(roles...))
		}
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(EmployeeIDFromContext(r.Context()) + ":" + string(RoleFromContext(r.Context()))))
		})
	})
	return r
}

func doGet(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", "1h")
	router := newProtectedRouter(jwtService)

	token, _, err := jwtService.GenerateAccessToken("emp-1", "e@hrms.com", employee.RoleEmployee)
	require.NoError(t, err)

	rec := doGet(router, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-1:EMPLOYEE", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, doGet(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "not-a-token").Code)

	sseToken, _, err := jwtService.GenerateSSEToken("emp-1", employee.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, sseToken).Code)

	jwtService.RevokeToken(token, time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, doGet(router, token).Code)
}

func TestRequireRoles(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", "1h")
	router := newProtectedRouter(jwtService, employee.RoleAdmin, employee.RoleManager)

	employeeToken, _, err := jwtService.GenerateAccessToken("emp-1", "e@hrms.com", employee.RoleEmployee)
	require.NoError(t, err)
	managerToken, _, err := jwtService.GenerateAccessToken("emp-2", "m@hrms.com", employee.RoleManager)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(router, employeeToken).Code)
	assert.Equal(t, http.StatusOK, doGet(router, managerToken).Code)
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(0, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
