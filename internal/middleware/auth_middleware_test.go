package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardflow/internal/auth"
	"boardflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

// newProtectedRouter отдаёт наружу то, что middleware положил в контекст
func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware(testSecret))

	r.GET("/whoami", func(c *gin.Context) {
		raw, _ := c.Get(middleware.UserIDKey)
		userID, ok := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":     userID.String(),
			"helper_ok":   ok,
			"stored_uuid": isUUID(raw),
		})
	})
	return r
}

func isUUID(v any) bool {
	_, ok := v.(uuid.UUID)
	return ok
}

func call(r *gin.Engine, authorization string) (int, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	body := map[string]any{}
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return resp.Code, body
}

func TestJWTAuthMiddleware_IssuedTokenIsAccepted(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewTokenManager(testSecret, time.Hour).Generate(userID)
	require.NoError(t, err)

	code, body := call(newProtectedRouter(), "Bearer "+token)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, true, body["helper_ok"])
	assert.Equal(t, true, body["stored_uuid"], "context must hold a uuid.UUID, not a string")
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	otherSecret, err := auth.NewTokenManager("another-secret", time.Hour).Generate(uuid.New())
	require.NoError(t, err)

	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}
	future := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name          string
		authorization string
		wantError     string
	}{
		{"missing header", "", "Authorization header is required"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "Authorization header format must be Bearer {token}"},
		{"empty bearer", "Bearer ", "Authorization header format must be Bearer {token}"},
		{"garbage token", "Bearer not.a.jwt", "Invalid or expired token"},
		{"foreign secret", "Bearer " + otherSecret, "Invalid or expired token"},
		{"expired", "Bearer " + sign(jwt.MapClaims{"user_id": uuid.NewString(), "exp": time.Now().Add(-time.Minute).Unix()}), "Invalid or expired token"},
		{"no expiry", "Bearer " + sign(jwt.MapClaims{"user_id": uuid.NewString()}), "Invalid or expired token"},
		{"no user id", "Bearer " + sign(jwt.MapClaims{"exp": future}), "Invalid or expired token"},
		{"malformed user id", "Bearer " + sign(jwt.MapClaims{"user_id": "not-a-valid-uuid", "exp": future}), "Invalid user ID in token"},
	}

	r := newProtectedRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := call(r, tc.authorization)

			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, tc.wantError, body["error"])
			// Обработчик не должен был выполниться
			assert.NotContains(t, body, "user_id")
		})
	}
}

func TestUserID_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := middleware.UserID(c)
	assert.False(t, ok)

	// Строка вместо uuid.UUID не принимается
	c.Set(middleware.UserIDKey, uuid.NewString())
	_, ok = middleware.UserID(c)
	assert.False(t, ok)

	want := uuid.New()
	c.Set(middleware.UserIDKey, want)
	got, ok := middleware.UserID(c)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
