package middleware

import (
	"VidTube/pkg/logger"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func echoUserID(c *gin.Context) {
	id, _ := c.Get(ContextUserID)
	c.JSON(http.StatusOK, gin.H{"user_id": id})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), echoUserID)

	valid := signToken(t, testSecret, jwt.MapClaims{"user_id": 42, "username": "alice", "exp": time.Now().Add(time.Hour).Unix()})
	expired := signToken(t, testSecret, jwt.MapClaims{"user_id": 42, "exp": time.Now().Add(-time.Hour).Unix()})
	forged := signToken(t, "other-secret", jwt.MapClaims{"user_id": 42})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user_id":42}`, w.Body.String())
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/feed", OptionalAuth(testSecret), echoUserID)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":null}`, w.Body.String())
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 2, time.Minute)
	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "不同IP互不影响")

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("1.1.1.1"))
	l.mu.Lock()
	_, kept := l.visitors["2.2.2.2"]
	l.mu.Unlock()
	assert.False(t, kept, "过期的IP被清理")
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
}

func TestRequestLogger_RecordsAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hook := test.NewLocal(logger.Log)
	t.Cleanup(func() { logger.Log.ReplaceHooks(make(map[logrus.Level][]logrus.Hook)) })

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/me", AuthMiddleware(testSecret), echoUserID)

	token := signToken(t, testSecret, jwt.MapClaims{"user_id": 42, "username": "alice", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(HeaderRequestID, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, uint64(42), entry.Data["user_id"])
	assert.Equal(t, "alice", entry.Data["username"])

	hook.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.NotContains(t, entry.Data, "user_id")
}
