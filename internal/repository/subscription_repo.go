package repository

import (
	"VidTube/internal/model"
	"context"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Exists(ctx context.Context, subscriberID, channelID uint64) (bool, error)
	Create(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID uint64) (int64, error)

	// 频道的订阅者，最近订阅的在前
	ListSubscribers(ctx context.Context, channelID uint64, offset, limit int) ([]model.ChannelSummaryRow, int64, error)
	// 用户已订阅的频道，最近订阅的在前
	ListSubscribedChannels(ctx context.Context, subscriberID uint64, offset, limit int) ([]model.ChannelSummaryRow, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{})
	return result.RowsAffected, result.Error
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID uint64, offset, limit int) ([]model.ChannelSummaryRow, int64, error) {
	return r.listAccounts(ctx, "subscriptions.subscriber_id", "subscriptions.channel_id", channelID, offset, limit)
}

func (r *subscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID uint64, offset, limit int) ([]model.ChannelSummaryRow, int64, error) {
	return r.listAccounts(ctx, "subscriptions.channel_id", "subscriptions.subscriber_id", subscriberID, offset, limit)
}

// 两个列表只是订阅关系的方向不同：joinColumn是要展示的账号，filterColumn是固定的一方
func (r *subscriptionRepository) listAccounts(ctx context.Context, joinColumn, filterColumn string, id uint64, offset, limit int) ([]model.ChannelSummaryRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Table("subscriptions").Where(filterColumn+" = ?", id).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []model.ChannelSummaryRow{}
	if total == 0 {
		return rows, 0, nil
	}
	err := r.db.WithContext(ctx).Table("subscriptions").
		Select("users.id, users.username, users.full_name, users.avatar, subscriptions.created_at AS subscribed_at, "+userSubscriberCountExpr).
		Joins("JOIN users ON users.id = "+joinColumn).
		Where(filterColumn+" = ?", id).
		Order("subscriptions.created_at DESC").
		Order("subscriptions.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
