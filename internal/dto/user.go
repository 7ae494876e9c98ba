package dto

import (
	"VidTube/internal/model"
	"time"
)

// UserResponse 当前登录用户自己的资料，包含邮箱，不包含密码
type UserResponse struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChannelResponse 频道主页，对所有人公开，不包含邮箱
type ChannelResponse struct {
	ID                uint64    `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"full_name"`
	Avatar            string    `json:"avatar"`
	CoverImage        string    `json:"cover_image"`
	CreatedAt         time.Time `json:"created_at"`
	SubscriberCount   int64     `json:"subscriber_count"`
	SubscribedToCount int64     `json:"subscribed_to_count"`
	IsSubscribed      bool      `json:"is_subscribed"`
}

type ChannelSummary struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	Avatar          string    `json:"avatar"`
	SubscriberCount int64     `json:"subscriber_count"`
	SubscribedAt    time.Time `json:"subscribed_at"`
}

type ChannelStatsResponse struct {
	ID               uint64 `json:"id"`
	Username         string `json:"username"`
	Avatar           string `json:"avatar"`
	TotalSubscribers int64  `json:"total_subscribers"`
	TotalVideos      int64  `json:"total_videos"`
	TotalViews       int64  `json:"total_views"`
	TotalLikes       int64  `json:"total_likes"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
	}
}

func ToChannelResponse(row *model.ChannelRow) ChannelResponse {
	return ChannelResponse{
		ID:                row.ID,
		Username:          row.Username,
		FullName:          row.FullName,
		Avatar:            row.Avatar,
		CoverImage:        row.CoverImage,
		CreatedAt:         row.CreatedAt,
		SubscriberCount:   row.SubscriberCount,
		SubscribedToCount: row.SubscribedToCount,
		IsSubscribed:      row.IsSubscribed,
	}
}

func ToChannelSummaries(rows []model.ChannelSummaryRow) []ChannelSummary {
	response := make([]ChannelSummary, 0, len(rows))
	for _, r := range rows {
		response = append(response, ChannelSummary{
			ID:              r.ID,
			Username:        r.Username,
			FullName:        r.FullName,
			Avatar:          r.Avatar,
			SubscriberCount: r.SubscriberCount,
			SubscribedAt:    r.SubscribedAt,
		})
	}
	return response
}

func ToChannelStatsResponse(stats *model.ChannelStats) ChannelStatsResponse {
	return ChannelStatsResponse{
		ID:               stats.ID,
		Username:         stats.Username,
		Avatar:           stats.Avatar,
		TotalSubscribers: stats.TotalSubscribers,
		TotalVideos:      stats.TotalVideos,
		TotalViews:       stats.TotalViews,
		TotalLikes:       stats.TotalLikes,
	}
}
