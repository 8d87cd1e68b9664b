/*
 * @Description: 页面与附件处理器
 * @Date: 2026-10-10 15:36:12
 * @LastEditTime: 2026-10-13 19:52:30
 */
package page

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dustinreed/portfolio/pkg/response"
)

// faviconContentType 与浏览器约定的 ico 类型
const faviconContentType = "image/vnd.microsoft.icon"

// Handler 页面处理器
type Handler struct {
	staticDir string
}

// NewHandler 创建页面处理器，staticDir 为简历、证书和网站图标所在目录
func NewHandler(staticDir string) *Handler {
	return &Handler{
		staticDir: staticDir,
	}
}

// StaticDir 静态文件目录
func (h *Handler) StaticDir() string {
	return h.staticDir
}

// Render 渲染页面模板
func (h *Handler) Render(templateName, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, templateName, gin.H{
			"Title": title,
		})
	}
}

// Attachment 以附件形式下发静态目录中的文件
func (h *Handler) Attachment(fileName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := filepath.Join(h.staticDir, fileName)
		if !fileExists(path) {
			log.Printf("[页面] 附件不存在: %s", path)
			h.NotFound(c)
			return
		}
		c.FileAttachment(path, fileName)
	}
}

// Favicon 网站图标
func (h *Handler) Favicon(c *gin.Context) {
	path := filepath.Join(h.staticDir, "favicon.ico")
	if !fileExists(path) {
		h.NotFound(c)
		return
	}
	c.Header("Content-Type", faviconContentType)
	c.File(path)
}

// NotFound 未匹配的路由，/api/ 下返回 JSON，其余返回错误页面
func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		response.Fail(c, http.StatusNotFound, "接口不存在")
		return
	}
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"Title": "Error",
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
