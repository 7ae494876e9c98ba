package handler

import (
	"VidTube/internal/dto"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DashboardHandler interface {
	ChannelStats(c *gin.Context)
	ChannelVideos(c *gin.Context)
}

type dashboardHandler struct {
	DashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) DashboardHandler {
	return &dashboardHandler{DashboardService: dashboardService}
}

// 频道统计：没有订阅者和视频时所有数字都是0
func (h *dashboardHandler) ChannelStats(c *gin.Context) {
	username := c.Param("username")
	logCtx := logger.Log.WithField("channel", username)
	stats, err := h.DashboardService.ChannelStats(c.Request.Context(), username)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendSuccess(c, http.StatusOK, "成功获取频道统计", dto.ToChannelStatsResponse(stats))
}

func (h *dashboardHandler) ChannelVideos(c *gin.Context) {
	username := c.Param("username")
	logCtx := logger.Log.WithField("channel", username)
	params, err := parsePage(c)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	page, err := h.DashboardService.ChannelVideos(c.Request.Context(), username, viewerID(c), params)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendList(c, "成功获取频道视频", dto.ToVideoListItems(page.Items, page.Owners), page.Meta)
}
