package repository

import (
	"VidTube/internal/model"
	"context"

	"gorm.io/gorm"
)

// 用户仓库接口：1、将用户插入用户表 2、根据ID/用户名/邮箱查找用户 3、批量加载账号投影 4、频道主页和统计
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID uint64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByLogin(ctx context.Context, username, email string) (*model.User, error)
	Update(ctx context.Context, userID uint64, fields map[string]interface{}) error

	FindProfiles(ctx context.Context, userIDs []uint64) (model.Owners, error)
	FindChannel(ctx context.Context, username string, viewerID uint64) (*model.ChannelRow, error)
	ChannelStats(ctx context.Context, userID uint64) (*model.ChannelStats, error)
}

// 数据库接口封装
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, userID uint64) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).First(&result, userID).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// 根据用户名找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var result model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&result).Error
	if err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, nil
}

// 登录时用户名或邮箱任意一个匹配即可
func (r *userRepository) FindByLogin(ctx context.Context, username, email string) (*model.User, error) {
	var result model.User
	err := r.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// 只更新传入的列，map的key是列名
func (r *userRepository) Update(ctx context.Context, userID uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
}

// 一次性查询所有相关账号，只取公开字段，返回按ID索引的map，供上层在内存中拼装
func (r *userRepository) FindProfiles(ctx context.Context, userIDs []uint64) (model.Owners, error) {
	owners := make(model.Owners, len(userIDs))
	if len(userIDs) == 0 {
		return owners, nil
	}
	var profiles []model.OwnerProfile
	err := r.db.WithContext(ctx).Table("users").
		Select("id, username, avatar").
		Where("id IN ?", userIDs).
		Scan(&profiles).Error
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		owners[p.ID] = p
	}
	return owners, nil
}

// 频道主页：账号公开信息 + 订阅者数 + 已订阅数 + 当前访问者是否已订阅
func (r *userRepository) FindChannel(ctx context.Context, username string, viewerID uint64) (*model.ChannelRow, error) {
	var row model.ChannelRow
	err := r.db.WithContext(ctx).Table("users").
		Select("users.id, users.username, users.full_name, users.avatar, users.cover_image, users.created_at, "+
			userSubscriberCountExpr+", "+userSubscribedToCountExpr+", "+userIsSubscribedExpr, viewerID).
		Where("users.username = ?", username).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// 频道统计：订阅者总数、视频总数、播放总数、视频获赞总数，没有数据时都是0
func (r *userRepository) ChannelStats(ctx context.Context, userID uint64) (*model.ChannelStats, error) {
	var stats model.ChannelStats
	err := r.db.WithContext(ctx).Table("users").
		Select(`users.id, users.username, users.avatar,
			(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.channel_id = users.id) AS total_subscribers,
			(SELECT COUNT(*) FROM videos WHERE videos.owner_id = users.id) AS total_videos,
			(SELECT COALESCE(SUM(videos.views), 0) FROM videos WHERE videos.owner_id = users.id) AS total_views,
			(SELECT COUNT(*) FROM likes JOIN videos ON likes.target_type = 'video' AND likes.target_id = videos.id
				WHERE videos.owner_id = users.id) AS total_likes`).
		Where("users.id = ?", userID).
		Take(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
