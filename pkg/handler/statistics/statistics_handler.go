/*
 * @Description: 访问统计处理器
 * @Date: 2026-10-10 16:02:45
 * @LastEditTime: 2026-10-13 20:11:37
 */
package statistics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dustinreed/portfolio/pkg/service/statistics"
)

// StatisticsHandler 统计处理器
type StatisticsHandler struct {
	tracker statistics.VisitorTracker
}

// NewStatisticsHandler 创建统计处理器实例
func NewStatisticsHandler(tracker statistics.VisitorTracker) *StatisticsHandler {
	return &StatisticsHandler{
		tracker: tracker,
	}
}

// GetAPIStats 获取访客统计数据
// @Summary      获取访客统计数据
// @Description  总访客、总浏览量、本月与上月、最近7天、月度明细及访问最多的IP
// @Tags         访问统计
// @Produce      json
// @Success      200  {object}  model.APIStats  "获取成功"
// @Failure      429  {object}  response.Response  "请求过于频繁"
// @Router       /api/stats [get]
func (h *StatisticsHandler) GetAPIStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.StatsForAPI(c.Request.Context()))
}

// GetDashboard 访客统计仪表盘
// @Summary      访客统计仪表盘
// @Description  HTML 页面，需要 Basic 认证
// @Tags         访问统计
// @Security     BasicAuth
// @Produce      html
// @Success      200  {string}  string  "仪表盘页面"
// @Failure      401  {string}  string  "需要认证"
// @Router       /analytics [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "analytics.html", gin.H{
		"Title": "Analytics",
		"Stats": h.tracker.StatsForTemplate(c.Request.Context()),
	})
}
