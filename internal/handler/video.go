package handler

import (
	"VidTube/internal/apperror"
	"VidTube/internal/dto"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	PublishVideo(c *gin.Context)
	GetVideoByID(c *gin.Context)
	ListVideos(c *gin.Context)
	UpdateVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)
	TogglePublish(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
	uploadDir    string
}

func NewVideoHandler(videoService service.VideoService, uploadDir string) VideoHandler {
	return &videoHandler{VideoService: videoService, uploadDir: uploadDir}
}

// multipart表单字段，文件字段videoFile和thumbnail单独读取
type PublishVideoRequest struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description" binding:"required"`
	Duration    float64 `form:"duration" binding:"omitempty,gte=0"`
}

type UpdateVideoRequest struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

type ListVideosQuery struct {
	Query    string `form:"query"`
	UserID   uint64 `form:"userId"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType" binding:"omitempty,oneof=asc desc"`
}

// 发布视频：1、解析表单和认证后的userID 2、保存上传的视频和封面到临时目录 3、service层上传并写库 4、dto返回
func (h *videoHandler) PublishVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	// 蛇形命名法（日志聚合平台ELK、前端JavaScript）
	logCtx := logger.Log.WithField("owner_id", userID)
	var req PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	logCtx.Info("开始处理发布视频请求")

	videoPath, err := saveUpload(c, "videoFile", h.uploadDir)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	defer removeTemp(videoPath)
	if videoPath == "" {
		writeError(c, logCtx, apperror.Validation("videoFile", "视频文件不能为空"))
		return
	}
	thumbnailPath, err := saveUpload(c, "thumbnail", h.uploadDir)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	defer removeTemp(thumbnailPath)

	video, err := h.VideoService.PublishVideo(c.Request.Context(), userID, service.PublishVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		Duration:      req.Duration,
	})
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	// 没有赋值，临时追加上下文，避免污染后续其他日志
	logCtx.WithField("video_id", video.ID).Info("视频发布成功")
	sendSuccess(c, http.StatusCreated, "视频发布成功", dto.ToVideoResponse(video))
}

func (h *videoHandler) GetVideoByID(c *gin.Context) {
	videoID, ok := parseID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("video_id", videoID)
	detail, err := h.VideoService.GetVideoByID(c.Request.Context(), videoID, viewerID(c))
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendSuccess(c, http.StatusOK, "成功获取视频", dto.ToVideoDetailResponse(detail.Row, detail.Owner))
}

// 视频列表/搜索，也作为首页Feed流：1、解析筛选、排序和分页参数 2、service层查询 3、dto层拼装所有者
func (h *videoHandler) ListVideos(c *gin.Context) {
	// 攻击溯源，用户分析，问题排查
	logCtx := logger.Log.WithField("ip", c.ClientIP())
	var q ListVideosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	params, err := parsePage(c)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	page, err := h.VideoService.ListVideos(c.Request.Context(), service.VideoQuery{
		Query:    q.Query,
		OwnerID:  q.UserID,
		SortBy:   q.SortBy,
		SortType: q.SortType,
	}, viewerID(c), params)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("count", len(page.Items)).Info("成功获取视频列表")
	sendList(c, "成功获取视频列表", dto.ToVideoListItems(page.Items, page.Owners), page.Meta)
}

// 更新视频：表单字段和文件都是可选的，至少提供一个
func (h *videoHandler) UpdateVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	var req UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	videoPath, err := saveUpload(c, "videoFile", h.uploadDir)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	defer removeTemp(videoPath)
	thumbnailPath, err := saveUpload(c, "thumbnail", h.uploadDir)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	defer removeTemp(thumbnailPath)

	video, err := h.VideoService.UpdateVideo(c.Request.Context(), userID, videoID, service.UpdateVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("视频更新成功")
	sendSuccess(c, http.StatusOK, "视频更新成功", dto.ToVideoResponse(video))
}

// 删除视频：媒体文件释放失败时依然返回200，media_released=false表示已转入异步清理
func (h *videoHandler) DeleteVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	result, err := h.VideoService.DeleteVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	message := "视频删除成功"
	if !result.MediaReleased {
		message = "视频已删除，媒体文件将稍后清理"
		logCtx.Warn(message)
	} else {
		logCtx.Info(message)
	}
	sendSuccess(c, http.StatusOK, message, gin.H{"media_released": result.MediaReleased})
}

func (h *videoHandler) TogglePublish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	video, err := h.VideoService.TogglePublish(c.Request.Context(), userID, videoID)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("is_published", video.IsPublished).Info("发布状态已切换")
	sendSuccess(c, http.StatusOK, "发布状态已切换", dto.ToVideoResponse(video))
}
