package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"socialfeed/config"
	"socialfeed/middleware"
	"socialfeed/models"
	"socialfeed/routes"
	"socialfeed/utils"
)

// newTestServer wires the real router against a throwaway sqlite database so
// tests exercise the exact middleware chain and JSON contract of production.
func newTestServer(t *testing.T) *gin.Engine {
	return newTestServerRateLimited(t, 100000)
}

// newTestServerRateLimited is newTestServer with an explicit per-minute rate
// limit, for tests that exercise the limiter itself.
func newTestServerRateLimited(t *testing.T, perMinute int) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		GinMode:            "test",
		GinPath:            filepath.Join(dir, "gin.log"),
		LogLevel:           "error",
		RateLimitPerMinute: perMinute,
	})
	require.NoError(t, utils.InitLogger(config.Get()))
	utils.DisableRedisForTesting()
	middleware.ResetLimitersForTesting()

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}, &models.Comment{}))

	return routes.SetupRouter(db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// registerUser registers an account and returns its token.
func registerUser(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/users", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "register body: %s", w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createPost creates a post and returns its decoded body.
func createPost(t *testing.T, r *gin.Engine, token, text string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/post", token, gin.H{"text": text})
	require.Equal(t, http.StatusOK, w.Code, "create post body: %s", w.Body.String())
	var post map[string]interface{}
	decode(t, w, &post)
	return post
}

func recordID(t *testing.T, record map[string]interface{}) string {
	t.Helper()
	id, ok := record["id"].(float64)
	require.True(t, ok, "record has no numeric id: %v", record)
	return strconv.FormatUint(uint64(id), 10)
}
