package page

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newPageEngine(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tmpl := template.Must(template.New("index.html").Parse(`page:{{.Title}}`))
	template.Must(tmpl.New("404.html").Parse(`missing:{{.Title}}`))
	r.SetHTMLTemplate(tmpl)

	h := NewHandler(staticDir)
	r.GET("/", h.Render("index.html", "Home"))
	r.GET("/resume", h.Attachment("Resume-Reed-Dustin.pdf"))
	r.GET("/favicon.ico", h.Favicon)
	r.NoRoute(h.NotFound)
	return r
}

func TestHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Resume-Reed-Dustin.pdf"), []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
	r := newPageEngine(t, dir)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
		wantHeader map[string]string
	}{
		{name: "渲染页面", path: "/", wantStatus: http.StatusOK, wantBody: "page:Home"},
		{name: "附件下载", path: "/resume", wantStatus: http.StatusOK, wantBody: "%PDF-1.4"},
		{name: "网站图标缺失", path: "/favicon.ico", wantStatus: http.StatusNotFound, wantBody: "missing:Error"},
		{name: "未知页面", path: "/gdfipjdfgspi", wantStatus: http.StatusNotFound, wantBody: "missing:Error"},
		{name: "未知接口", path: "/api/nothing", wantStatus: http.StatusNotFound, wantBody: `"code":404`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("状态码 = %d, 期望 %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("响应 = %q, 应包含 %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandler_Favicon(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "favicon.ico"), []byte{0, 0, 1, 0}, 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
	r := newPageEngine(t, dir)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != faviconContentType {
		t.Errorf("Content-Type = %q", got)
	}
}
