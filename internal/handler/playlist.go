package handler

import (
	"VidTube/internal/dto"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler interface {
	CreatePlaylist(c *gin.Context)
	GetPlaylist(c *gin.Context)
	ListUserPlaylists(c *gin.Context)
	UpdatePlaylist(c *gin.Context)
	DeletePlaylist(c *gin.Context)
	AddVideo(c *gin.Context)
	RemoveVideo(c *gin.Context)
}

type playlistHandler struct {
	PlaylistService service.PlaylistService
}

func NewPlaylistHandler(playlistService service.PlaylistService) PlaylistHandler {
	return &playlistHandler{PlaylistService: playlistService}
}

type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=128"`
	Description *string `json:"description"`
}

func (h *playlistHandler) CreatePlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	playlist, err := h.PlaylistService.CreatePlaylist(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("playlist_id", playlist.ID).Info("播放列表创建成功")
	sendSuccess(c, http.StatusCreated, "播放列表创建成功", dto.ToPlaylistResponse(playlist))
}

func (h *playlistHandler) GetPlaylist(c *gin.Context) {
	playlistID, ok := parseID(c, "playlist_id", "无效的播放列表ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("playlist_id", playlistID)
	detail, err := h.PlaylistService.GetPlaylist(c.Request.Context(), playlistID, viewerID(c))
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendSuccess(c, http.StatusOK, "成功获取播放列表", dto.ToPlaylistDetailResponse(detail.Playlist, detail.Videos, detail.Owners))
}

func (h *playlistHandler) ListUserPlaylists(c *gin.Context) {
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
	page, err := h.PlaylistService.ListUserPlaylists(c.Request.Context(), userID, params)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendList(c, "成功获取播放列表", dto.ToPlaylistSummaries(page.Items, page.Owners), page.Meta)
}

func (h *playlistHandler) UpdatePlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseID(c, "playlist_id", "无效的播放列表ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("playlist_id", playlistID)
	var req UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	playlist, err := h.PlaylistService.UpdatePlaylist(c.Request.Context(), userID, playlistID, service.UpdatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("播放列表更新成功")
	sendSuccess(c, http.StatusOK, "播放列表更新成功", dto.ToPlaylistResponse(playlist))
}

func (h *playlistHandler) DeletePlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseID(c, "playlist_id", "无效的播放列表ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("playlist_id", playlistID)
	if err := h.PlaylistService.DeletePlaylist(c.Request.Context(), userID, playlistID); err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("播放列表删除成功")
	sendSuccess(c, http.StatusOK, "播放列表删除成功", nil)
}

func (h *playlistHandler) AddVideo(c *gin.Context) {
	h.changeEntry(c, "视频已加入播放列表", h.PlaylistService.AddVideo)
}

func (h *playlistHandler) RemoveVideo(c *gin.Context) {
	h.changeEntry(c, "视频已移出播放列表", h.PlaylistService.RemoveVideo)
}

// 加入/移出视频共用：两个ID都在URL里
func (h *playlistHandler) changeEntry(c *gin.Context, message string,
	change func(ctx context.Context, actorID, playlistID, videoID uint64) error) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseID(c, "playlist_id", "无效的播放列表ID")
	if !ok {
		return
	}
	videoID, ok := parseID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("playlist_id", playlistID).WithField("video_id", videoID)
	if err := change(c.Request.Context(), userID, playlistID, videoID); err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info(message)
	sendSuccess(c, http.StatusOK, message, nil)
}
