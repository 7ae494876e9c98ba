package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/data"
	"VidTube/internal/event"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"VidTube/internal/storage"
	"VidTube/pkg/logger"
	"VidTube/pkg/rabbitmq"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultMediaTimeout = 60 * time.Second

type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string // 本地临时文件
	ThumbnailPath string // 可选
	Duration      float64
}

// UpdateVideoInput 指针为nil、路径为空表示不修改
type UpdateVideoInput struct {
	Title         *string
	Description   *string
	VideoPath     string
	ThumbnailPath string
}

// VideoQuery 列表查询条件，OwnerID为0表示所有人
type VideoQuery struct {
	Query    string
	OwnerID  uint64
	SortBy   string
	SortType string
}

type VideoDetail struct {
	Row   *model.VideoDetailRow
	Owner model.OwnerProfile
}

// DeleteResult 数据库删除一定成功才会返回，MediaReleased=false表示媒体文件已转入异步重试
type DeleteResult struct {
	MediaReleased bool
}

type VideoService interface {
	PublishVideo(ctx context.Context, actorID uint64, in PublishVideoInput) (*model.Video, error)
	GetVideoByID(ctx context.Context, videoID, viewerID uint64) (*VideoDetail, error)
	ListVideos(ctx context.Context, q VideoQuery, viewerID uint64, params pagination.Params) (*Page[model.VideoRow], error)
	UpdateVideo(ctx context.Context, actorID, videoID uint64, in UpdateVideoInput) (*model.Video, error)
	DeleteVideo(ctx context.Context, actorID, videoID uint64) (*DeleteResult, error)
	TogglePublish(ctx context.Context, actorID, videoID uint64) (*model.Video, error)
}

type videoService struct {
	sf singleflight.Group

	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	uow       data.UnitOfWork
	media     storage.MediaStorage
	publisher rabbitmq.Publisher
	guard     *OwnershipGuard
	timeout   time.Duration
}

// publisher为nil时不发送播放事件，也不做媒体释放的异步重试
func NewVideoService(videoRepo repository.VideoRepository, userRepo repository.UserRepository, uow data.UnitOfWork,
	media storage.MediaStorage, publisher rabbitmq.Publisher, mediaTimeout time.Duration) VideoService {
	if mediaTimeout <= 0 {
		mediaTimeout = defaultMediaTimeout
	}
	return &videoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		uow:       uow,
		media:     media,
		publisher: publisher,
		guard:     NewOwnershipGuard("视频", videoRepo.FindOwnerID),
		timeout:   mediaTimeout,
	}
}

// 发布视频：1、校验标题、简介和视频文件 2、上传视频和封面 3、写库，写库失败要释放已上传的文件 4、默认未发布
func (s *videoService) PublishVideo(ctx context.Context, actorID uint64, in PublishVideoInput) (*model.Video, error) {
	title, err := requireText("title", in.Title, "标题不能为空")
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", in.Description, "简介不能为空")
	if err != nil {
		return nil, err
	}
	if in.VideoPath == "" {
		return nil, apperror.Validation("videoFile", "视频文件不能为空")
	}

	mediaCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	videoAsset, err := s.media.Store(mediaCtx, in.VideoPath)
	if err != nil {
		return nil, apperror.Infrastructure("上传视频文件失败", err)
	}
	var thumbnail string
	if in.ThumbnailPath != "" {
		thumbAsset, err := s.media.Store(mediaCtx, in.ThumbnailPath)
		if err != nil {
			s.releaseOrEnqueue(ctx, videoAsset.URL)
			return nil, apperror.Infrastructure("上传封面失败", err)
		}
		thumbnail = thumbAsset.URL
	}

	duration := videoAsset.Duration
	if duration <= 0 {
		duration = in.Duration
	}
	newVideo := &model.Video{
		OwnerID:     actorID,
		Title:       title,
		Description: description,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbnail,
		Duration:    duration,
	}
	if err := s.videoRepo.Create(ctx, newVideo); err != nil {
		s.releaseOrEnqueue(ctx, videoAsset.URL)
		s.releaseOrEnqueue(ctx, thumbnail)
		return nil, apperror.Infrastructure("保存视频失败", err)
	}
	return newVideo, nil
}

// 根据videoID查找视频：1、查找Redis缓存 2、通过SingleFlight进行数据库查找，查到后写回缓存
func (s *videoService) loadVideo(ctx context.Context, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(ctx, videoID)
	if err == nil && video != nil {
		return video, nil
	}
	// 不是缓存里没有，而是Redis本身出错了，记录日志后回源数据库
	if err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("读取视频缓存失败")
	}
	// 缓存未命中，同一时间对同一个视频的查询只放一个去数据库
	key := fmt.Sprintf("get_video_%d", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(ctx, videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		if cacheErr := s.videoRepo.SetVideoCache(ctx, dbVideo); cacheErr != nil {
			logger.Log.WithError(cacheErr).WithField("video_id", videoID).Warn("写入视频缓存失败")
		}
		return dbVideo, nil
	})
	if err != nil {
		return nil, notFoundOr(err, "视频", "查询视频失败")
	}
	return result.(*model.Video), nil
}

// 视频详情：1、加载视频，未发布的只对所有者可见 2、实时计算读模型 3、加载所有者 4、已发布视频记录一次播放
func (s *videoService) GetVideoByID(ctx context.Context, videoID, viewerID uint64) (*VideoDetail, error) {
	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperror.NotFound("视频")
	}
	row, err := s.videoRepo.FindDetail(ctx, videoID, viewerID)
	if err != nil {
		return nil, notFoundOr(err, "视频", "查询视频详情失败")
	}
	owners, err := loadOwners(ctx, s.userRepo, []uint64{row.OwnerID})
	if err != nil {
		return nil, err
	}
	if row.IsPublished {
		s.recordView(ctx, videoID, viewerID)
	}
	return &VideoDetail{Row: row, Owner: owners[row.OwnerID]}, nil
}

// 播放数由消费者异步累加，发送失败不影响本次请求
func (s *videoService) recordView(ctx context.Context, videoID, viewerID uint64) {
	if s.publisher == nil {
		return
	}
	msg := event.VideoViewMessage{VideoID: videoID, ViewerID: viewerID}
	if err := s.publisher.Publish(ctx, event.QueueVideoView, msg); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("播放事件投递失败")
	}
}

// 视频列表：只看已发布的；查询自己的视频时包括未发布的
func (s *videoService) ListVideos(ctx context.Context, q VideoQuery, viewerID uint64, params pagination.Params) (*Page[model.VideoRow], error) {
	filter := repository.VideoFilter{
		Query:         q.Query,
		OwnerID:       q.OwnerID,
		PublishedOnly: q.OwnerID == 0 || q.OwnerID != viewerID,
		SortBy:        q.SortBy,
		SortType:      q.SortType,
	}
	rows, total, err := s.videoRepo.List(ctx, filter, viewerID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询视频列表失败", err)
	}
	owners, err := loadOwners(ctx, s.userRepo, videoOwnerIDs(rows))
	if err != nil {
		return nil, err
	}
	return newPage(rows, owners, total, params), nil
}

// 更新视频：1、至少修改一个字段 2、所有权校验 3、上传替换的媒体文件 4、只更新提供的字段并删除缓存 5、尽力释放被替换的旧文件
func (s *videoService) UpdateVideo(ctx context.Context, actorID, videoID uint64, in UpdateVideoInput) (*model.Video, error) {
	fields := map[string]interface{}{}
	if err := optionalText(fields, "title", in.Title, "标题不能为空"); err != nil {
		return nil, err
	}
	if err := optionalText(fields, "description", in.Description, "简介不能为空"); err != nil {
		return nil, err
	}
	if len(fields) == 0 && in.VideoPath == "" && in.ThumbnailPath == "" {
		return nil, apperror.Validation("", "至少需要提供一个要更新的字段")
	}

	return guardedMutation(ctx, s.guard, videoID, actorID, func(ctx context.Context) (*model.Video, error) {
		current, err := s.videoRepo.FindByID(ctx, videoID)
		if err != nil {
			return nil, notFoundOr(err, "视频", "查询视频失败")
		}

		var stored, replaced []string
		mediaCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if in.VideoPath != "" {
			asset, err := s.media.Store(mediaCtx, in.VideoPath)
			if err != nil {
				return nil, apperror.Infrastructure("上传视频文件失败", err)
			}
			fields["video_file"] = asset.URL
			if asset.Duration > 0 {
				fields["duration"] = asset.Duration
			}
			stored = append(stored, asset.URL)
			replaced = append(replaced, current.VideoFile)
		}
		if in.ThumbnailPath != "" {
			asset, err := s.media.Store(mediaCtx, in.ThumbnailPath)
			if err != nil {
				s.releaseAll(ctx, stored)
				return nil, apperror.Infrastructure("上传封面失败", err)
			}
			fields["thumbnail"] = asset.URL
			stored = append(stored, asset.URL)
			replaced = append(replaced, current.Thumbnail)
		}

		if err := s.videoRepo.Update(ctx, videoID, fields); err != nil {
			s.releaseAll(ctx, stored)
			return nil, apperror.Infrastructure("更新视频失败", err)
		}
		s.invalidate(ctx, videoID)
		s.releaseAll(ctx, replaced)

		updated, err := s.videoRepo.FindByID(ctx, videoID)
		if err != nil {
			return nil, notFoundOr(err, "视频", "查询视频失败")
		}
		return updated, nil
	})
}

// 删除视频：1、所有权校验 2、在一个事务中级联删除点赞、评论及评论的点赞、播放列表条目和视频本身 3、提交后释放视频和封面
// 媒体释放失败不回滚，转入队列重试并返回MediaReleased=false
func (s *videoService) DeleteVideo(ctx context.Context, actorID, videoID uint64) (*DeleteResult, error) {
	return guardedMutation(ctx, s.guard, videoID, actorID, func(ctx context.Context) (*DeleteResult, error) {
		video, err := s.videoRepo.FindByID(ctx, videoID)
		if err != nil {
			return nil, notFoundOr(err, "视频", "查询视频失败")
		}

		var deleted int64
		err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
			commentIDs, err := repos.CommentRepo.IDsByVideo(ctx, videoID)
			if err != nil {
				return err
			}
			if err := repos.LikeRepo.DeleteByTargets(ctx, model.LikeTargetComment, commentIDs); err != nil {
				return err
			}
			if err := repos.CommentRepo.DeleteByVideo(ctx, videoID); err != nil {
				return err
			}
			if err := repos.LikeRepo.DeleteByTargets(ctx, model.LikeTargetVideo, []uint64{videoID}); err != nil {
				return err
			}
			if err := repos.PlaylistRepo.DeleteEntriesByVideo(ctx, videoID); err != nil {
				return err
			}
			deleted, err = repos.VideoRepo.Delete(ctx, videoID)
			return err
		})
		if err != nil {
			return nil, apperror.Infrastructure("删除视频失败", err)
		}
		s.invalidate(ctx, videoID)
		if deleted == 0 {
			// 并发删除已经处理过媒体文件
			return &DeleteResult{MediaReleased: true}, nil
		}

		released := s.releaseOrEnqueue(ctx, video.VideoFile)
		released = s.releaseOrEnqueue(ctx, video.Thumbnail) && released
		return &DeleteResult{MediaReleased: released}, nil
	})
}

// 切换发布状态
func (s *videoService) TogglePublish(ctx context.Context, actorID, videoID uint64) (*model.Video, error) {
	return guardedMutation(ctx, s.guard, videoID, actorID, func(ctx context.Context) (*model.Video, error) {
		video, err := s.videoRepo.FindByID(ctx, videoID)
		if err != nil {
			return nil, notFoundOr(err, "视频", "查询视频失败")
		}
		if err := s.videoRepo.Update(ctx, videoID, map[string]interface{}{"is_published": !video.IsPublished}); err != nil {
			return nil, apperror.Infrastructure("更新发布状态失败", err)
		}
		s.invalidate(ctx, videoID)
		video.IsPublished = !video.IsPublished
		return video, nil
	})
}

func (s *videoService) invalidate(ctx context.Context, videoID uint64) {
	if err := s.videoRepo.DeleteVideoCache(ctx, videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("删除视频缓存失败")
	}
}

func (s *videoService) releaseAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		s.releaseOrEnqueue(ctx, url)
	}
}

// releaseOrEnqueue 释放媒体文件，失败时投递到重试队列；返回是否已经释放
func (s *videoService) releaseOrEnqueue(ctx context.Context, url string) bool {
	if url == "" {
		return true
	}
	mediaCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	err := s.media.Release(mediaCtx, url)
	if err == nil {
		return true
	}
	logCtx := logger.Log.WithField("url", url)
	logCtx.WithError(err).Error("释放媒体文件失败，转入异步重试")
	if s.publisher == nil {
		return false
	}
	msg := event.MediaReleaseMessage{URL: url, Reason: err.Error()}
	if pubErr := s.publisher.Publish(ctx, event.QueueMediaRelease, msg); pubErr != nil {
		// 【严重】数据库记录已删除，但媒体文件既没释放也没进入重试队列，需要人工处理
		logCtx.WithError(pubErr).Error("媒体释放重试消息投递失败，需人工清理")
	}
	return false
}

// findVisibleVideo 评论、点赞、加入播放列表前确认视频存在且对操作者可见
func findVisibleVideo(ctx context.Context, videoRepo repository.VideoRepository, videoID, viewerID uint64) (*model.Video, error) {
	video, err := videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, notFoundOr(err, "视频", "查询视频失败")
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperror.NotFound("视频")
	}
	return video, nil
}
