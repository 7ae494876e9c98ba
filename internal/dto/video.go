package dto

import (
	"VidTube/internal/model"
	"time"
)

type VideoResponse struct {
	ID          uint64        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	VideoFile   string        `json:"video_file"`
	Thumbnail   string        `json:"thumbnail"`
	Duration    float64       `json:"duration"`
	Views       uint64        `json:"views"`
	IsPublished bool          `json:"is_published"`
	Owner       OwnerResponse `json:"owner"`
}

// VideoListItem 列表中的一项，带点赞数和评论数
type VideoListItem struct {
	VideoResponse
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	IsLiked      bool  `json:"is_liked"`
}

type VideoDetailResponse struct {
	VideoListItem
	OwnerSubscribers int64 `json:"owner_subscribers"`
	IsSubscribed     bool  `json:"is_subscribed"`
}

// ToVideoResponse 是一个转换函数，把DB模型转换为API响应模型，owner只有ID
func ToVideoResponse(video *model.Video) VideoResponse {
	return VideoResponse{
		ID:          video.ID,
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Duration:    video.Duration,
		Views:       video.Views,
		IsPublished: video.IsPublished,
		Owner:       OwnerResponse{ID: video.OwnerID},
	}
}

func ToVideoListItem(row *model.VideoRow, owners model.Owners) VideoListItem {
	item := VideoListItem{
		VideoResponse: ToVideoResponse(&row.Video),
		LikeCount:     row.LikeCount,
		CommentCount:  row.CommentCount,
		IsLiked:       row.IsLiked,
	}
	item.Owner = ToOwnerResponse(owners, row.OwnerID)
	return item
}

// 创建一个有预估容量的切片，没有数据时返回空数组而不是null
func ToVideoListItems(rows []model.VideoRow, owners model.Owners) []VideoListItem {
	items := make([]VideoListItem, 0, len(rows))
	for i := range rows {
		items = append(items, ToVideoListItem(&rows[i], owners))
	}
	return items
}

func ToVideoDetailResponse(row *model.VideoDetailRow, owner model.OwnerProfile) VideoDetailResponse {
	owners := model.Owners{owner.ID: owner}
	return VideoDetailResponse{
		VideoListItem:    ToVideoListItem(&row.VideoRow, owners),
		OwnerSubscribers: row.OwnerSubscribers,
		IsSubscribed:     row.IsSubscribed,
	}
}
