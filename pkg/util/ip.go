// pkg/util/ip.go
package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// cdnClientIPHeaders CDN 回源时携带真实客户端 IP 的头部
// 支持的 CDN: Cloudflare, Akamai, 腾讯云 EdgeOne, 阿里云 CDN/ESA
var cdnClientIPHeaders = []string{
	"CF-Connecting-IP",
	"True-Client-IP",
	"EO-Connecting-IP",
	"Ali-CDN-Real-IP",
}

// GetRealClientIP 获取客户端真实IP地址
// 优先级：X-Forwarded-For 第一项 > X-Real-IP > CDN 头部 > 连接对端地址
// 头部的值必须是合法 IP，否则跳过
func GetRealClientIP(c *gin.Context) string {
	// X-Forwarded-For 格式：client, proxy1, proxy2
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := normalizeIP(first); ip != "" {
			return ip
		}
	}

	if ip := normalizeIP(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	for _, header := range cdnClientIPHeaders {
		if ip := normalizeIP(c.GetHeader(header)); ip != "" {
			return ip
		}
	}

	return RemoteIP(c)
}

// RemoteIP 连接对端地址，不信任任何头部
func RemoteIP(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err != nil {
		return normalizeIP(c.Request.RemoteAddr)
	}
	return normalizeIP(host)
}

// normalizeIP 校验并返回 IP 的规范写法，非法值返回空字符串
func normalizeIP(raw string) string {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return ""
	}
	return ip.String()
}
