package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"olivemind_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	protected := engine.Group("/protected")
	protected.Use(AuthMiddleware())
	{
		protected.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("userID")})
		})
		admin := protected.Group("/admin")
		admin.Use(RoleAuthMiddleware("Admin"))
		admin.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})
	}
	return engine
}

func doRequest(engine *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthMiddleware(t *testing.T) {
	engine := newTestRouter()

	if got := doRequest(engine, "/protected/ping", "").Code; got != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want 401", got)
	}
	if got := doRequest(engine, "/protected/ping", "Token abc").Code; got != http.StatusUnauthorized {
		t.Errorf("malformed header: got %d, want 401", got)
	}
	if got := doRequest(engine, "/protected/ping", "Bearer not-a-token").Code; got != http.StatusUnauthorized {
		t.Errorf("invalid token: got %d, want 401", got)
	}

	token, err := utils.GenerateAccessToken(1, "coordinator", "Coordinator")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if got := doRequest(engine, "/protected/ping", "Bearer "+token).Code; got != http.StatusOK {
		t.Errorf("valid token: got %d, want 200", got)
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	engine := newTestRouter()

	coordinatorToken, err := utils.GenerateAccessToken(1, "coordinator", "Coordinator")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if got := doRequest(engine, "/protected/admin/ping", "Bearer "+coordinatorToken).Code; got != http.StatusForbidden {
		t.Errorf("wrong role: got %d, want 403", got)
	}

	adminToken, err := utils.GenerateAccessToken(2, "admin", "Admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if got := doRequest(engine, "/protected/admin/ping", "Bearer "+adminToken).Code; got != http.StatusOK {
		t.Errorf("admin role: got %d, want 200", got)
	}
}
