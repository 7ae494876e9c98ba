package repository

import (
	"VidTube/internal/model"
	"context"

	"gorm.io/gorm"
)

type LikeRepository interface {
	Exists(ctx context.Context, userID uint64, targetType string, targetID uint64) (bool, error)
	Create(ctx context.Context, like *model.Like) error
	// Delete 返回影响行数，0表示并发请求已经删掉了
	Delete(ctx context.Context, userID uint64, targetType string, targetID uint64) (int64, error)
	DeleteByTargets(ctx context.Context, targetType string, targetIDs []uint64) error

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Exists(ctx context.Context, userID uint64, targetType string, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// 唯一索引兜底：并发重复点赞时这里会返回重复键错误，由上层决定怎么处理
func (r *likeRepository) Create(ctx context.Context, like *model.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) Delete(ctx context.Context, userID uint64, targetType string, targetID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

// 删除某些目标上的全部点赞（目标被删除时级联）
func (r *likeRepository) DeleteByTargets(ctx context.Context, targetType string, targetIDs []uint64) error {
	if len(targetIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Delete(&model.Like{}).Error
}
