package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func protectedRouter(m *AuthMiddleware, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, "%d:%s", UserID(c), c.GetString(ContextRole))
	})
	r.GET("/me", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtService := newJWT()
	token, _, err := jwtService.GenerateToken(&models.User{ID: 7, Email: "ada@example.com", RoleType: models.RoleStudent})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	foreign, _, _ := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour}).
		GenerateToken(&models.User{ID: 7, Email: "ada@example.com", RoleType: models.RoleStudent})

	router := protectedRouter(NewAuthMiddleware(jwtService))

	tests := []struct {
		name   string
		header string
		query  string
		status int
		code   dto.ErrorCode
	}{
		{name: "bearer header", header: "Bearer " + token, status: http.StatusOK},
		{name: "raw token", header: token, status: http.StatusOK},
		{name: "quoted token", header: `"Bearer ` + token + `"`, status: http.StatusOK},
		{name: "query token", query: "?token=" + token, status: http.StatusOK},
		{name: "missing", status: http.StatusUnauthorized, code: dto.ErrorCodeUnauthorized},
		{name: "bad format", header: "Basic a b", status: http.StatusUnauthorized, code: dto.ErrorCodeUnauthorized},
		{name: "wrong signature", header: "Bearer " + foreign, status: http.StatusUnauthorized, code: dto.ErrorCodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK {
				if w.Body.String() != "7:student" {
					t.Errorf("context = %q", w.Body.String())
				}
				return
			}
			if resp := decodeError(t, w); resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestRoleRequired(t *testing.T) {
	jwtService := newJWT()
	router := protectedRouter(NewAuthMiddleware(jwtService), string(models.RoleIndustryExpert))

	for role, want := range map[models.RoleType]int{
		models.RoleIndustryExpert: http.StatusOK,
		models.RoleStudent:        http.StatusForbidden,
	} {
		token, _, err := jwtService.GenerateToken(&models.User{ID: 3, Email: "x@example.com", RoleType: role})
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != want {
			t.Errorf("role %s: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.NewValidationError("email", "email is invalid"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
		{apperrors.NewForbiddenError("not yours"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("wrapped: %w", apperrors.ErrSubscriptionNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrAlreadyCompleted, http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.ErrCourseInactive, http.StatusConflict, dto.ErrorCodeConflict},
		{errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(c, tt.err)

		if w.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.status)
			continue
		}
		resp := decodeError(t, w)
		if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
			t.Errorf("%v: body = %s", tt.err, w.Body.String())
		}
	}
}

func TestHandleAPIError_Messages(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleAPIError(c, apperrors.NewValidationError("skill", "skill is required"))

	resp := decodeError(t, w)
	if resp.Message != "skill is required" || resp.Error.Field != "skill" {
		t.Errorf("resp = %+v", resp.Error)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleAPIError(c, errors.New("pq: password authentication failed"))

	if resp := decodeError(t, w); resp.Message != "Internal server error" {
		t.Errorf("internal errors must not leak: %q", resp.Message)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.Nop()), Recovery(zerolog.Nop()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("a request id must be generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want the caller's id", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("panic status = %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	handler := NewCORS([]string{"http://localhost:5173"}).Handler(inner)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/courses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
	if w.Code == http.StatusTeapot {
		t.Error("preflight must not reach the router")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin allowed: %q", got)
	}
}
