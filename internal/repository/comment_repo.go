package repository

import (
	"VidTube/internal/model"
	"context"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	FindOwnerID(ctx context.Context, commentID uint64) (uint64, error)
	Update(ctx context.Context, commentID uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, commentID uint64) (int64, error)

	// 分页获取视频的评论，最新的在前
	ListByVideo(ctx context.Context, videoID, viewerID uint64, offset, limit int) ([]model.CommentRow, int64, error)

	// 删除视频时级联使用
	IDsByVideo(ctx context.Context, videoID uint64) ([]uint64, error)
	DeleteByVideo(ctx context.Context, videoID uint64) error

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 commentRepository 实例
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

// Create 方法对事务和非事务场景通用
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var result model.Comment
	if err := r.db.WithContext(ctx).First(&result, commentID).Error; err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, nil
}

func (r *commentRepository) FindOwnerID(ctx context.Context, commentID uint64) (uint64, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Select("id", "owner_id").First(&comment, commentID).Error; err != nil {
		return 0, err
	}
	return comment.OwnerID, nil
}

func (r *commentRepository) Update(ctx context.Context, commentID uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", commentID).Updates(fields).Error
}

func (r *commentRepository) Delete(ctx context.Context, commentID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID, viewerID uint64, offset, limit int) ([]model.CommentRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []model.CommentRow{}
	if total == 0 {
		return rows, 0, nil
	}
	err := r.db.WithContext(ctx).Table("comments").
		Select("comments.*, "+commentLikeCountExpr+", "+commentIsLikedExpr, viewerID).
		Where("comments.video_id = ?", videoID).
		Order("comments.created_at DESC").
		Order("comments.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *commentRepository) IDsByVideo(ctx context.Context, videoID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.Comment{}).Error
}
