package repository

import (
	"VidTube/internal/model"
	"context"

	"gorm.io/gorm"
)

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	FindByID(ctx context.Context, tweetID uint64) (*model.Tweet, error)
	FindOwnerID(ctx context.Context, tweetID uint64) (uint64, error)
	Update(ctx context.Context, tweetID uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, tweetID uint64) (int64, error)
	ListByOwner(ctx context.Context, ownerID, viewerID uint64, offset, limit int) ([]model.TweetRow, int64, error)

	WithTx(tx *gorm.DB) TweetRepository
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) WithTx(tx *gorm.DB) TweetRepository {
	return &tweetRepository{db: tx}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *tweetRepository) FindByID(ctx context.Context, tweetID uint64) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, tweetID).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) FindOwnerID(ctx context.Context, tweetID uint64) (uint64, error) {
	var tweet model.Tweet
	if err := r.db.WithContext(ctx).Select("id", "owner_id").First(&tweet, tweetID).Error; err != nil {
		return 0, err
	}
	return tweet.OwnerID, nil
}

func (r *tweetRepository) Update(ctx context.Context, tweetID uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", tweetID).Updates(fields).Error
}

func (r *tweetRepository) Delete(ctx context.Context, tweetID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", tweetID).Delete(&model.Tweet{})
	return result.RowsAffected, result.Error
}

// 用户的推文，最新的在前，每条带点赞数和访问者是否点赞
func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID, viewerID uint64, offset, limit int) ([]model.TweetRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []model.TweetRow{}
	if total == 0 {
		return rows, 0, nil
	}
	err := r.db.WithContext(ctx).Table("tweets").
		Select("tweets.*, "+tweetLikeCountExpr+", "+tweetIsLikedExpr, viewerID).
		Where("tweets.owner_id = ?", ownerID).
		Order("tweets.created_at DESC").
		Order("tweets.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
