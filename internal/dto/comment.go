package dto

import (
	"VidTube/internal/model"
	"time"
)

type CommentResponse struct {
	ID        uint64        `json:"id"`
	VideoID   uint64        `json:"video_id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	LikeCount int64         `json:"like_count"`
	IsLiked   bool          `json:"is_liked"`
	Owner     OwnerResponse `json:"owner"`
}

func ToCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Owner:     OwnerResponse{ID: comment.OwnerID},
	}
}

// ToCommentResponses 评论读模型 + 批量加载的评论者
func ToCommentResponses(rows []model.CommentRow, owners model.Owners) []CommentResponse {
	response := make([]CommentResponse, 0, len(rows))
	for i := range rows {
		resp := ToCommentResponse(&rows[i].Comment)
		resp.LikeCount = rows[i].LikeCount
		resp.IsLiked = rows[i].IsLiked
		resp.Owner = ToOwnerResponse(owners, rows[i].OwnerID)
		response = append(response, resp)
	}
	return response
}
