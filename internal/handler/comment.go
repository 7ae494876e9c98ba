package handler

import (
	"VidTube/internal/dto"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	AddComment(c *gin.Context)
	ListComments(c *gin.Context)
	UpdateComment(c *gin.Context)
	DeleteComment(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content *string `json:"content"`
}

// 发表评论：1、:video_id用来定位资源，放在URL路径里，Body承载内容 2、从认证后的context获取userID 3、service层创建
func (h *commentHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	comment, err := h.CommentService.AddComment(c.Request.Context(), userID, videoID, req.Content)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("评论成功")
	sendSuccess(c, http.StatusCreated, "评论成功", dto.ToCommentResponse(comment))
}

func (h *commentHandler) ListComments(c *gin.Context) {
	videoID, ok := parseID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("video_id", videoID)
	params, err := parsePage(c)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	page, err := h.CommentService.ListComments(c.Request.Context(), videoID, viewerID(c), params)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendList(c, "成功获取评论列表", dto.ToCommentResponses(page.Items, page.Owners), page.Meta)
}

func (h *commentHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id", "无效的评论ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	comment, err := h.CommentService.UpdateComment(c.Request.Context(), userID, commentID, req.Content)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("评论更新成功")
	sendSuccess(c, http.StatusOK, "评论更新成功", dto.ToCommentResponse(comment))
}

func (h *commentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id", "无效的评论ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)
	if err := h.CommentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("评论删除成功")
	sendSuccess(c, http.StatusOK, "评论删除成功", nil)
}
