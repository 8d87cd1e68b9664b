/*
 * @Description: 访问统计中间件
 * @Date: 2026-10-10 10:14:36
 * @LastEditTime: 2026-10-13 19:51:03
 */
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dustinreed/portfolio/pkg/service/statistics"
	"github.com/dustinreed/portfolio/pkg/util"
)

// DefaultSkipPaths 默认不统计的路径，以 "/" 结尾的按前缀匹配
var DefaultSkipPaths = []string{"/static/", "/favicon.ico"}

// ReportPaths 统计报表自身的路径
var ReportPaths = []string{"/stats", "/analytics", "/api/stats"}

// StatisticsMiddleware 访问统计中间件
type StatisticsMiddleware struct {
	tracker   statistics.VisitorTracker
	skipPaths []string
}

// NewStatisticsMiddleware 创建统计中间件实例。trackReports 为 false 时报表路径不计入统计。
func NewStatisticsMiddleware(tracker statistics.VisitorTracker, skipPaths []string, trackReports bool) *StatisticsMiddleware {
	paths := make([]string, 0, len(skipPaths)+len(ReportPaths))
	for _, p := range skipPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if !trackReports {
		paths = append(paths, ReportPaths...)
	}
	return &StatisticsMiddleware{
		tracker:   tracker,
		skipPaths: paths,
	}
}

// StatisticsHandler 统计中间件处理函数，在处理器执行前同步记录
func (m *StatisticsMiddleware) StatisticsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.shouldSkipPath(c.Request.URL.Path) {
			m.tracker.Track(c.Request.Context(), util.GetRealClientIP(c), c.GetHeader("User-Agent"))
		}
		c.Next()
	}
}

// shouldSkipPath 判断是否应该跳过统计的路径
func (m *StatisticsMiddleware) shouldSkipPath(path string) bool {
	for _, skipPath := range m.skipPaths {
		if strings.HasSuffix(skipPath, "/") {
			if strings.HasPrefix(path, skipPath) {
				return true
			}
			continue
		}
		if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
			return true
		}
	}
	return false
}
