// internal/app/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dustinreed/portfolio/internal/pkg/security"
	"github.com/dustinreed/portfolio/pkg/util"
)

const (
	basicAuthRealm     = `Basic realm="Analytics Dashboard"`
	basicAuthChallenge = "Authentication required to access analytics dashboard.\nPlease enter your credentials."
)

// BasicAuth 仪表盘的 HTTP Basic 认证。
// 用户名或密码未配置时任何请求都无法通过；以 "$2" 开头的密码按 bcrypt 哈希校验。
func BasicAuth(username, password string) gin.HandlerFunc {
	configured := username != "" && password != ""
	if !configured {
		log.Println("⚠️  仪表盘账号未配置，/analytics 将拒绝所有访问")
	}

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !configured || !ok || !checkCredentials(username, password, user, pass) {
			if ok {
				log.Printf("[BasicAuth] 认证失败: user=%s, ip=%s", user, util.GetRealClientIP(c))
			}
			c.Header("WWW-Authenticate", basicAuthRealm)
			c.Data(http.StatusUnauthorized, "text/plain; charset=utf-8", []byte(basicAuthChallenge))
			c.Abort()
			return
		}
		c.Next()
	}
}

func checkCredentials(wantUser, wantPass, user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(wantUser), []byte(user)) == 1

	var passOK bool
	if strings.HasPrefix(wantPass, "$2") {
		passOK = security.CheckPasswordHash(pass, wantPass)
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(wantPass), []byte(pass)) == 1
	}
	return userOK && passOK
}
