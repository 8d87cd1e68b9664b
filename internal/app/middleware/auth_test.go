package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dustinreed/portfolio/internal/pkg/security"
)

func newAuthEngine(username, password string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/analytics", BasicAuth(username, password), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})
	return r
}

func TestBasicAuth(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("生成哈希失败: %v", err)
	}

	tests := []struct {
		name       string
		username   string
		password   string
		reqUser    string
		reqPass    string
		withAuth   bool
		wantStatus int
	}{
		{name: "未携带凭证", username: "admin", password: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "明文密码正确", username: "admin", password: "s3cret", reqUser: "admin", reqPass: "s3cret", withAuth: true, wantStatus: http.StatusOK},
		{name: "明文密码错误", username: "admin", password: "s3cret", reqUser: "admin", reqPass: "nope", withAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "用户名错误", username: "admin", password: "s3cret", reqUser: "root", reqPass: "s3cret", withAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "bcrypt 密码正确", username: "admin", password: hash, reqUser: "admin", reqPass: "s3cret", withAuth: true, wantStatus: http.StatusOK},
		{name: "bcrypt 密码错误", username: "admin", password: hash, reqUser: "admin", reqPass: hash, withAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "未配置账号时空凭证也不能通过", reqUser: "", reqPass: "", withAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "只配置用户名", username: "admin", reqUser: "admin", reqPass: "", withAuth: true, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthEngine(tt.username, tt.password)
			req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
			if tt.withAuth {
				req.SetBasicAuth(tt.reqUser, tt.reqPass)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("状态码 = %d, 期望 %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if got := w.Header().Get("WWW-Authenticate"); got != `Basic realm="Analytics Dashboard"` {
					t.Errorf("WWW-Authenticate = %q", got)
				}
				if w.Body.String() != "Authentication required to access analytics dashboard.\nPlease enter your credentials." {
					t.Errorf("响应内容 = %q", w.Body.String())
				}
			}
		})
	}
}
