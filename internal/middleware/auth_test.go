package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/response"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(userID interface{}, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func newAuthRouter(roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(testSecret))
	handlers := []gin.HandlerFunc{}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": actor.UserID, "role": actor.Role, "ip": actor.IPAddress})
	})
	router.GET("/whoami", handlers...)
	return router
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantUserID float64
	}{
		{"missing header", "", "", http.StatusUnauthorized, 0},
		{"not bearer", "Basic abc", "", http.StatusUnauthorized, 0},
		{"numeric user id", "Bearer " + signToken(t, testSecret, validClaims(42, "developer")), "", http.StatusOK, 42},
		{"string user id", "Bearer " + signToken(t, testSecret, validClaims("7", "qa")), "", http.StatusOK, 7},
		{"query token", "", "?access_token=" + signToken(t, testSecret, validClaims(5, "manager")), http.StatusOK, 5},
		{"wrong secret", "Bearer " + signToken(t, "other", validClaims(42, "developer")), "", http.StatusUnauthorized, 0},
		{"unknown role", "Bearer " + signToken(t, testSecret, validClaims(42, "admin")), "", http.StatusUnauthorized, 0},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"user_id": 42, "role": "qa", "exp": time.Now().Add(-time.Hour).Unix(),
		}), "", http.StatusUnauthorized, 0},
	}

	router := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				var body response.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, response.ErrCodeUnauthorized, body.Error.Code)
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantUserID, body["userId"])
			assert.NotEmpty(t, body["ip"])
		})
	}
}

func TestRequireRoles(t *testing.T) {
	router := newAuthRouter(domain.RoleManager, domain.RoleQA)

	for role, want := range map[string]int{
		"manager":   http.StatusOK,
		"qa":        http.StatusOK,
		"developer": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(1, role)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), response.ErrCodeInternal)
}
