package repository

import (
	"VidTube/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoFilter 视频列表的筛选条件
type VideoFilter struct {
	Query         string // 标题/简介模糊匹配，为空不过滤
	OwnerID       uint64 // 0表示不限所有者
	PublishedOnly bool
	SortBy        string
	SortType      string
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, videoID uint64) (*model.Video, error)
	FindOwnerID(ctx context.Context, videoID uint64) (uint64, error)
	Update(ctx context.Context, videoID uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, videoID uint64) (int64, error)
	IncrementViews(ctx context.Context, videoID uint64) error

	GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error)
	SetVideoCache(ctx context.Context, video *model.Video) error
	DeleteVideoCache(ctx context.Context, videoID uint64) error

	// 读模型
	FindDetail(ctx context.Context, videoID, viewerID uint64) (*model.VideoDetailRow, error)
	List(ctx context.Context, filter VideoFilter, viewerID uint64, offset, limit int) ([]model.VideoRow, int64, error)
	ListLikedBy(ctx context.Context, userID uint64, offset, limit int) ([]model.VideoRow, int64, error)
	ListByPlaylist(ctx context.Context, playlistID, viewerID uint64) ([]model.VideoRow, error)

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
}

// rdb为nil时不使用缓存
func NewVideoRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) VideoRepository {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &videoRepository{
		db:       db,
		rdb:      rdb,
		cacheTTL: cacheTTL,
	}
}

// WithTx 返回一个新的、使用事务的 videoRepository 实例，事务中不操作Redis
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{
		db:       tx,
		cacheTTL: r.cacheTTL,
	}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) FindByID(ctx context.Context, videoID uint64) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).First(&video, videoID).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// 只查owner_id一列，供所有权校验使用
func (r *videoRepository) FindOwnerID(ctx context.Context, videoID uint64) (uint64, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Select("id", "owner_id").First(&video, videoID).Error
	if err != nil {
		return 0, err
	}
	return video.OwnerID, nil
}

func (r *videoRepository) Update(ctx context.Context, videoID uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoID).Updates(fields).Error
}

func (r *videoRepository) Delete(ctx context.Context, videoID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", videoID).Delete(&model.Video{})
	return result.RowsAffected, result.Error
}

// 使用GORM的表达式来执行原子更新：UPDATE `videos` SET `views` = `views` + 1 WHERE id = ?
func (r *videoRepository) IncrementViews(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// 返回存储单个视频信息的字符串Key
func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

// 从Redis缓存中获取单个Video信息：1、利用VideoID组装key 2、拿key去rdb中寻找videoJSON 3、反序列化
// 缓存不存在时返回(nil, nil)
func (r *videoRepository) GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(ctx, r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err // Redis本身出错了
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// 将单个视频信息存入Redis缓存，过期时间加上随机性防止缓存雪崩
func (r *videoRepository) SetVideoCache(ctx context.Context, video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	expiration := r.cacheTTL + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

// 视频被修改或删除后，删除缓存，下次读取时回源
func (r *videoRepository) DeleteVideoCache(ctx context.Context, videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, r.keyVideoInfo(videoID)).Err()
}

// 视频详情读模型：视频字段 + 点赞数 + 评论数 + 所有者订阅数 + 访问者是否点赞/订阅
func (r *videoRepository) FindDetail(ctx context.Context, videoID, viewerID uint64) (*model.VideoDetailRow, error) {
	var row model.VideoDetailRow
	err := r.db.WithContext(ctx).Table("videos").
		Select(videoRowSelect+", "+ownerSubscribersExpr+", "+ownerSubscribedExpr, viewerID, viewerID).
		Where("videos.id = ?", videoID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *videoRepository) filtered(ctx context.Context, filter VideoFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Table("videos")
	if filter.PublishedOnly {
		query = query.Where("videos.is_published = ?", true)
	}
	if filter.OwnerID != 0 {
		query = query.Where("videos.owner_id = ?", filter.OwnerID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(videos.title) LIKE ? OR LOWER(videos.description) LIKE ?)", pattern, pattern)
	}
	return query
}

// 视频列表：1、按条件统计总数 2、同样的条件按白名单排序分页 3、每一项带点赞数和评论数
func (r *videoRepository) List(ctx context.Context, filter VideoFilter, viewerID uint64, offset, limit int) ([]model.VideoRow, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []model.VideoRow{}
	if total == 0 {
		return rows, 0, nil
	}
	column, desc := ResolveVideoSort(filter.SortBy, filter.SortType)
	err := r.filtered(ctx, filter).
		Select(videoRowSelect, viewerID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "videos", Name: column}, Desc: desc}).
		Order("videos.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// 用户点赞过的视频，按点赞时间倒序；已下架的视频只有所有者自己能看到
func (r *videoRepository) ListLikedBy(ctx context.Context, userID uint64, offset, limit int) ([]model.VideoRow, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("videos").
			Joins("JOIN likes ON likes.target_type = 'video' AND likes.target_id = videos.id AND likes.user_id = ?", userID).
			Where("(videos.is_published = ? OR videos.owner_id = ?)", true, userID)
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []model.VideoRow{}
	if total == 0 {
		return rows, 0, nil
	}
	err := base().
		Select(videoRowSelect, userID).
		Order("likes.created_at DESC").
		Order("likes.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// 播放列表中的视频，按加入顺序；未发布的视频只对其所有者可见
func (r *videoRepository) ListByPlaylist(ctx context.Context, playlistID, viewerID uint64) ([]model.VideoRow, error) {
	rows := []model.VideoRow{}
	err := r.db.WithContext(ctx).Table("videos").
		Select(videoRowSelect, viewerID).
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlistID).
		Where("(videos.is_published = ? OR videos.owner_id = ?)", true, viewerID).
		Order("playlist_videos.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
