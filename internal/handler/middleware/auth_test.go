//go:build unit

package middleware

import (
	"net/http"
	"testing"
	"time"

	"booking-engine/internal/domain/user"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/jwt"
	"booking-engine/internal/usecase"
	"booking-engine/tests/common/authtest"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *authtest.JWTHelper) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.JWTConfig{Secret: "test-secret", Duration: "1h"}
	auth := NewAuthMiddleware(usecase.NewTokenValidator(jwt.NewService(cfg.Secret, time.Hour)))

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		actor, _ := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/misconfigured", auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, authtest.NewJWTHelper(cfg)
}

func TestRequireAuth(t *testing.T) {
	router, tokens := newAuthRouter(t)
	actor := builder.NewActorBuilder().AsStaff(uuid.New()).Build()

	tests := []struct {
		name       string
		token      func(t *testing.T) string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "valid token",
			token:      func(t *testing.T) string { return tokens.GenerateToken(t, actor) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			token:      func(*testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Access token required",
		},
		{
			name:       "expired token",
			token:      func(t *testing.T) string { return tokens.CreateExpiredToken(t, actor) },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid or expired token",
		},
		{
			name:       "malformed token",
			token:      func(*testing.T) string { return "abc.def.ghi" },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, tt.token(t))

			if tt.wantStatus != http.StatusOK {
				httptest.AssertErrorResponse(t, w, tt.wantStatus, tt.wantMsg)
				return
			}
			var body struct {
				UserID uuid.UUID `json:"user_id"`
				Role   user.Role `json:"role"`
			}
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
			assert.Equal(t, actor.UserID, body.UserID)
			assert.Equal(t, user.RoleStaff, body.Role)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	router, tokens := newAuthRouter(t)
	branchID := uuid.New()

	tests := []struct {
		name       string
		actor      user.Actor
		wantStatus int
	}{
		{"admin", builder.NewActorBuilder().AsAdmin().Build(), http.StatusNoContent},
		{"branch admin", builder.NewActorBuilder().AsBranchAdmin(branchID).Build(), http.StatusNoContent},
		{"staff", builder.NewActorBuilder().AsStaff(branchID).Build(), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, tokens.GenerateToken(t, tt.actor))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("without RequireAuth", func(t *testing.T) {
		w := httptest.PerformRequest(t, router, http.MethodGet, "/misconfigured", nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusInternalServerError, "Internal server error")
	})
}
