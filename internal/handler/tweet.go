package handler

import (
	"VidTube/internal/dto"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TweetHandler interface {
	CreateTweet(c *gin.Context)
	ListUserTweets(c *gin.Context)
	UpdateTweet(c *gin.Context)
	DeleteTweet(c *gin.Context)
}

type tweetHandler struct {
	TweetService service.TweetService
}

func NewTweetHandler(tweetService service.TweetService) TweetHandler {
	return &tweetHandler{TweetService: tweetService}
}

type TweetRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateTweetRequest struct {
	Content *string `json:"content"`
}

func (h *tweetHandler) CreateTweet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	tweet, err := h.TweetService.CreateTweet(c.Request.Context(), userID, req.Content)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("tweet_id", tweet.ID).Info("推文发布成功")
	sendSuccess(c, http.StatusCreated, "推文发布成功", dto.ToTweetResponse(tweet))
}

func (h *tweetHandler) ListUserTweets(c *gin.Context) {
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
	page, err := h.TweetService.ListUserTweets(c.Request.Context(), userID, viewerID(c), params)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendList(c, "成功获取推文列表", dto.ToTweetResponses(page.Items, page.Owners), page.Meta)
}

func (h *tweetHandler) UpdateTweet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tweetID, ok := parseID(c, "tweet_id", "无效的推文ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("tweet_id", tweetID)
	var req UpdateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	tweet, err := h.TweetService.UpdateTweet(c.Request.Context(), userID, tweetID, req.Content)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("推文更新成功")
	sendSuccess(c, http.StatusOK, "推文更新成功", dto.ToTweetResponse(tweet))
}

func (h *tweetHandler) DeleteTweet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tweetID, ok := parseID(c, "tweet_id", "无效的推文ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("tweet_id", tweetID)
	if err := h.TweetService.DeleteTweet(c.Request.Context(), userID, tweetID); err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("推文删除成功")
	sendSuccess(c, http.StatusOK, "推文删除成功", nil)
}
