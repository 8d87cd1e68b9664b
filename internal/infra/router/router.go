/*
 * @Description: 路由注册
 * @Date: 2026-10-10 17:20:03
 * @LastEditTime: 2026-10-13 20:40:16
 */
package router

import (
	"github.com/gin-gonic/gin"

	page_handler "github.com/dustinreed/portfolio/pkg/handler/page"
	statistics_handler "github.com/dustinreed/portfolio/pkg/handler/statistics"
)

// NoCacheMiddleware 反缓存中间件，统计数据不应被 CDN 缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	pageHandler       *page_handler.Handler
	statisticsHandler *statistics_handler.StatisticsHandler
	// dashboardAuth 仪表盘认证中间件
	dashboardAuth gin.HandlerFunc
	// reportLimit 统计报表限流中间件
	reportLimit gin.HandlerFunc
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	pageHandler *page_handler.Handler,
	statisticsHandler *statistics_handler.StatisticsHandler,
	dashboardAuth gin.HandlerFunc,
	reportLimit gin.HandlerFunc,
) *Router {
	return &Router{
		pageHandler:       pageHandler,
		statisticsHandler: statisticsHandler,
		dashboardAuth:     dashboardAuth,
		reportLimit:       reportLimit,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
func (r *Router) Setup(engine *gin.Engine) {
	r.registerPageRoutes(engine)
	r.registerDocumentRoutes(engine)
	r.registerStatisticsRoutes(engine)

	engine.Static("/static", r.pageHandler.StaticDir())
	engine.GET("/favicon.ico", r.pageHandler.Favicon)
	engine.NoRoute(r.pageHandler.NotFound)
}

func (r *Router) registerPageRoutes(engine *gin.Engine) {
	home := r.pageHandler.Render("index.html", "Home")
	engine.GET("/", home)
	engine.GET("/index", home)
	engine.GET("/home", home)

	engine.GET("/contact", r.pageHandler.Render("contact.html", "Contact"))
	engine.GET("/about", r.pageHandler.Render("about.html", "About"))

	certifications := r.pageHandler.Render("certifications.html", "Certifications")
	engine.GET("/certs", certifications)
	engine.GET("/certifications", certifications)

	engine.GET("/projects", r.pageHandler.Render("projects.html", "Projects"))
}

// registerDocumentRoutes 简历与证书下载，包含旧简历中印错的链接
func (r *Router) registerDocumentRoutes(engine *gin.Engine) {
	resume := r.pageHandler.Attachment("Resume-Reed-Dustin.pdf")
	for _, path := range []string{"/Resume", "/Resume-Reed-Dustin", "/Resume-Reed-Dustin.pdf", "/resume"} {
		engine.GET(path, resume)
	}

	cda := r.pageHandler.Attachment("aws-cda-cert.pdf")
	engine.GET("/aws-cda", cda)
	engine.GET("/aws-cda-cert.pdf", cda)

	csa := r.pageHandler.Attachment("aws-csa-cert.pdf")
	engine.GET("/aws-csa", csa)
	engine.GET("/aws-csa.cert.pdf", csa)
	engine.GET("/aws-csa-cert.pdf", csa)
}

// registerStatisticsRoutes 注册统计相关的路由
func (r *Router) registerStatisticsRoutes(engine *gin.Engine) {
	// 统计数据: GET /api/stats
	apiGroup := engine.Group("/api", NoCacheMiddleware())
	{
		apiGroup.GET("/stats", r.reportLimit, r.statisticsHandler.GetAPIStats)
	}

	// 仪表盘: GET /analytics, GET /stats
	dashboard := engine.Group("", NoCacheMiddleware(), r.reportLimit, r.dashboardAuth)
	{
		dashboard.GET("/analytics", r.statisticsHandler.GetDashboard)
		dashboard.GET("/stats", r.statisticsHandler.GetDashboard)
	}
}
