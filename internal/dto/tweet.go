package dto

import (
	"VidTube/internal/model"
	"time"
)

type TweetResponse struct {
	ID        uint64        `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	LikeCount int64         `json:"like_count"`
	IsLiked   bool          `json:"is_liked"`
	Owner     OwnerResponse `json:"owner"`
}

func ToTweetResponse(tweet *model.Tweet) TweetResponse {
	return TweetResponse{
		ID:        tweet.ID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
		UpdatedAt: tweet.UpdatedAt,
		Owner:     OwnerResponse{ID: tweet.OwnerID},
	}
}

func ToTweetResponses(rows []model.TweetRow, owners model.Owners) []TweetResponse {
	response := make([]TweetResponse, 0, len(rows))
	for i := range rows {
		resp := ToTweetResponse(&rows[i].Tweet)
		resp.LikeCount = rows[i].LikeCount
		resp.IsLiked = rows[i].IsLiked
		resp.Owner = ToOwnerResponse(owners, rows[i].OwnerID)
		response = append(response, resp)
	}
	return response
}
