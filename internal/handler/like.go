package handler

import (
	"VidTube/internal/dto"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	ToggleVideoLike(c *gin.Context)
	ToggleCommentLike(c *gin.Context)
	ToggleTweetLike(c *gin.Context)
	ListLikedVideos(c *gin.Context)
}

type likeHandler struct {
	LikeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) LikeHandler {
	return &likeHandler{LikeService: likeService}
}

type toggleFunc func(ctx context.Context, actorID, targetID uint64) (service.ToggleOutcome, error)

func (h *likeHandler) ToggleVideoLike(c *gin.Context) {
	toggleTarget(c, "video_id", "无效的视频ID", h.LikeService.ToggleVideoLike)
}

func (h *likeHandler) ToggleCommentLike(c *gin.Context) {
	toggleTarget(c, "comment_id", "无效的评论ID", h.LikeService.ToggleCommentLike)
}

func (h *likeHandler) ToggleTweetLike(c *gin.Context) {
	toggleTarget(c, "tweet_id", "无效的推文ID", h.LikeService.ToggleTweetLike)
}

// toggleTarget 点赞/订阅开关共用：1、从URL获取目标ID 2、从认证后的context获取userID 3、执行开关，返回created/removed
func toggleTarget(c *gin.Context, param, invalidMessage string, toggle toggleFunc) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseID(c, param, invalidMessage)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField(param, targetID)
	outcome, err := toggle(c.Request.Context(), userID, targetID)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("outcome", outcome).Info("开关操作成功")
	message := "操作成功"
	switch outcome {
	case service.ToggleCreated:
		message = "已添加"
	case service.ToggleRemoved:
		message = "已取消"
	}
	sendSuccess(c, http.StatusOK, message, gin.H{"outcome": outcome})
}

func (h *likeHandler) ListLikedVideos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)
	params, err := parsePage(c)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	page, err := h.LikeService.ListLikedVideos(c.Request.Context(), userID, params)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendList(c, "成功获取点赞的视频", dto.ToVideoListItems(page.Items, page.Owners), page.Meta)
}
