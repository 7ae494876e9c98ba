package handler

import (
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"context"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler interface {
	ToggleSubscription(c *gin.Context)
	ListSubscribers(c *gin.Context)
	ListSubscribedChannels(c *gin.Context)
}

type subscriptionHandler struct {
	SubscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{SubscriptionService: subscriptionService}
}

func (h *subscriptionHandler) ToggleSubscription(c *gin.Context) {
	toggleTarget(c, "channel_id", "无效的频道ID", h.SubscriptionService.ToggleSubscription)
}

func (h *subscriptionHandler) ListSubscribers(c *gin.Context) {
	h.listChannels(c, "成功获取订阅者列表", h.SubscriptionService.ListSubscribers)
}

func (h *subscriptionHandler) ListSubscribedChannels(c *gin.Context) {
	h.listChannels(c, "成功获取已订阅频道", h.SubscriptionService.ListSubscribedChannels)
}

func (h *subscriptionHandler) listChannels(c *gin.Context, message string,
	list func(ctx context.Context, userID uint64, params pagination.Params) (*service.Page[model.ChannelSummaryRow], error)) {
	userID, ok := parseID(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)
	params, err := parsePage(c)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	page, err := list(c.Request.Context(), userID, params)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendList(c, message, dto.ToChannelSummaries(page.Items), page.Meta)
}
