package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dustinreed/portfolio/pkg/domain/model"
)

type trackedVisit struct {
	ip        string
	userAgent string
}

type recordingTracker struct {
	mu     sync.Mutex
	visits []trackedVisit
}

func (r *recordingTracker) Track(_ context.Context, clientIP, userAgent string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, trackedVisit{ip: clientIP, userAgent: userAgent})
}

func (r *recordingTracker) StatsForAPI(context.Context) *model.APIStats { return &model.APIStats{} }

func (r *recordingTracker) StatsForTemplate(context.Context) *model.DashboardStats {
	return &model.DashboardStats{}
}

func TestStatisticsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		path         string
		trackReports bool
		wantTracked  bool
	}{
		{name: "首页", path: "/", wantTracked: true},
		{name: "普通页面", path: "/projects", wantTracked: true},
		{name: "静态资源", path: "/static/css/site.css", wantTracked: false},
		{name: "网站图标", path: "/favicon.ico", wantTracked: false},
		{name: "统计接口默认不计入", path: "/api/stats", wantTracked: false},
		{name: "仪表盘默认不计入", path: "/analytics", wantTracked: false},
		{name: "开启后统计接口计入", path: "/api/stats", trackReports: true, wantTracked: true},
		{name: "前缀相似的页面不受影响", path: "/statsheet", wantTracked: true},
		{name: "不存在的页面", path: "/gdfipjdfgspi", wantTracked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &recordingTracker{}
			m := NewStatisticsMiddleware(tracker, DefaultSkipPaths, tt.trackReports)

			r := gin.New()
			r.Use(m.StatisticsHandler())
			r.NoRoute(func(c *gin.Context) { c.Status(http.StatusNotFound) })
			r.GET(tt.path, func(c *gin.Context) {
				// 处理器执行时访问应已记录
				tracker.mu.Lock()
				defer tracker.mu.Unlock()
				c.String(http.StatusOK, "%d", len(tracker.visits))
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("User-Agent", "Mozilla/5.0")
			req.Header.Set("X-Forwarded-For", "203.0.113.5")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if got := len(tracker.visits) == 1; got != tt.wantTracked {
				t.Fatalf("记录次数 = %d, 期望记录 %v", len(tracker.visits), tt.wantTracked)
			}
			if tt.wantTracked {
				if w.Body.String() != "1" {
					t.Errorf("应在处理器执行前记录访问")
				}
				if v := tracker.visits[0]; v.ip != "203.0.113.5" || v.userAgent != "Mozilla/5.0" {
					t.Errorf("记录内容 = %+v", v)
				}
			}
		})
	}
}
