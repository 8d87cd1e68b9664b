package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dustinreed/portfolio/internal/app/middleware"
	"github.com/dustinreed/portfolio/internal/infra/storage"
	page_handler "github.com/dustinreed/portfolio/pkg/handler/page"
	statistics_handler "github.com/dustinreed/portfolio/pkg/handler/statistics"
	"github.com/dustinreed/portfolio/pkg/service/statistics"
)

func newStaticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"Resume-Reed-Dustin.pdf", "aws-cda-cert.pdf", "aws-csa-cert.pdf", "favicon.ico"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4 "+name), 0644); err != nil {
			t.Fatalf("写入静态文件失败: %v", err)
		}
	}
	return dir
}

func newTestEngine(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	classifier, err := statistics.NewUserAgentClassifier()
	if err != nil {
		t.Fatalf("创建 UA 解析器失败: %v", err)
	}
	store := statistics.NewVisitorStore(storage.NewMemoryStore(), "visitor_count.json")
	tracker := statistics.NewVisitorTracker(store, classifier)

	engine := gin.New()
	if err := SetupFrontend(engine, os.DirFS("../../../assets")); err != nil {
		t.Fatalf("加载模板失败: %v", err)
	}
	stats := middleware.NewStatisticsMiddleware(tracker, middleware.DefaultSkipPaths, false)
	engine.Use(stats.StatisticsHandler())

	r := NewRouter(
		page_handler.NewHandler(staticDir),
		statistics_handler.NewStatisticsHandler(tracker),
		middleware.BasicAuth("admin", "s3cret"),
		middleware.NewRateLimiter(0, 0).Handler(),
	)
	r.Setup(engine)
	return engine
}

func doGet(engine *gin.Engine, path string, withAuth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if withAuth {
		req.SetBasicAuth("admin", "s3cret")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	engine := newTestEngine(t, newStaticDir(t))

	routes := []string{
		"/", "/index", "/home", "/contact", "/about", "/certs", "/certifications",
		"/Resume", "/Resume-Reed-Dustin", "/Resume-Reed-Dustin.pdf", "/resume",
		"/aws-cda", "/aws-cda-cert.pdf",
		"/aws-csa", "/aws-csa.cert.pdf", "/aws-csa-cert.pdf",
		"/projects", "/favicon.ico", "/api/stats",
	}
	for _, route := range routes {
		t.Run(route, func(t *testing.T) {
			w := doGet(engine, route, false)
			if w.Code != http.StatusOK {
				t.Fatalf("GET %s 状态码 = %d, 期望 200", route, w.Code)
			}
		})
	}
}

func TestPageTitles(t *testing.T) {
	engine := newTestEngine(t, newStaticDir(t))

	tests := []struct {
		name  string
		path  string
		title string
	}{
		{name: "首页", path: "/", title: "Home - Dustin Reed"},
		{name: "证书页别名", path: "/certs", title: "Certifications - Dustin Reed"},
		{name: "项目页", path: "/projects", title: "Projects - Dustin Reed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(engine, tt.path, false)
			if !strings.Contains(w.Body.String(), "<title>"+tt.title+"</title>") {
				t.Errorf("页面 %s 缺少标题 %q", tt.path, tt.title)
			}
		})
	}
}

func TestAttachments(t *testing.T) {
	engine := newTestEngine(t, newStaticDir(t))

	tests := []struct {
		path     string
		fileName string
	}{
		{path: "/resume", fileName: "Resume-Reed-Dustin.pdf"},
		{path: "/aws-cda", fileName: "aws-cda-cert.pdf"},
		{path: "/aws-csa.cert.pdf", fileName: "aws-csa-cert.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doGet(engine, tt.path, false)
			disposition := w.Header().Get("Content-Disposition")
			if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, tt.fileName) {
				t.Errorf("Content-Disposition = %q, 期望附件 %s", disposition, tt.fileName)
			}
		})
	}

	t.Run("favicon 类型", func(t *testing.T) {
		w := doGet(engine, "/favicon.ico", false)
		if got := w.Header().Get("Content-Type"); got != "image/vnd.microsoft.icon" {
			t.Errorf("Content-Type = %q", got)
		}
	})
}

func TestNotFound(t *testing.T) {
	t.Run("未知页面", func(t *testing.T) {
		engine := newTestEngine(t, newStaticDir(t))
		w := doGet(engine, "/gdfipjdfgspi", false)
		if w.Code != http.StatusNotFound {
			t.Fatalf("状态码 = %d, 期望 404", w.Code)
		}
		if !strings.Contains(w.Body.String(), "<title>Error - Dustin Reed</title>") {
			t.Error("404 页面标题应为 Error")
		}
	})

	t.Run("未知接口返回 JSON", func(t *testing.T) {
		engine := newTestEngine(t, newStaticDir(t))
		w := doGet(engine, "/api/unknown", false)
		if w.Code != http.StatusNotFound {
			t.Fatalf("状态码 = %d, 期望 404", w.Code)
		}
		if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
			t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
		}
	})

	t.Run("附件缺失", func(t *testing.T) {
		engine := newTestEngine(t, t.TempDir())
		if w := doGet(engine, "/resume", false); w.Code != http.StatusNotFound {
			t.Fatalf("状态码 = %d, 期望 404", w.Code)
		}
	})
}

func TestDashboardAuth(t *testing.T) {
	engine := newTestEngine(t, newStaticDir(t))

	for _, path := range []string{"/analytics", "/stats"} {
		t.Run(path+" 未认证", func(t *testing.T) {
			w := doGet(engine, path, false)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("状态码 = %d, 期望 401", w.Code)
			}
			if got := w.Header().Get("WWW-Authenticate"); got != `Basic realm="Analytics Dashboard"` {
				t.Errorf("WWW-Authenticate = %q", got)
			}
		})
		t.Run(path+" 已认证", func(t *testing.T) {
			w := doGet(engine, path, true)
			if w.Code != http.StatusOK {
				t.Fatalf("状态码 = %d, 期望 200", w.Code)
			}
			if !strings.Contains(w.Body.String(), "Visitor Analytics") {
				t.Error("仪表盘内容缺失")
			}
		})
	}
}

func TestTrackingThroughRoutes(t *testing.T) {
	engine := newTestEngine(t, newStaticDir(t))

	doGet(engine, "/", false)
	doGet(engine, "/about", false)
	doGet(engine, "/static/css/style.css", false)
	doGet(engine, "/favicon.ico", false)

	w := doGet(engine, "/api/stats", false)
	if got := w.Header().Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Errorf("Cache-Control = %q", got)
	}

	var body struct {
		UniqueVisitors int64  `json:"unique_visitors"`
		TotalPageviews int64  `json:"total_pageviews"`
		Storage        string `json:"storage"`
		Status         string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body.UniqueVisitors != 1 || body.TotalPageviews != 2 {
		t.Errorf("访客 = %d, 浏览量 = %d, 期望 1 和 2", body.UniqueVisitors, body.TotalPageviews)
	}
	if body.Storage != "Memory" || body.Status != "success" {
		t.Errorf("storage = %q, status = %q", body.Storage, body.Status)
	}
}
