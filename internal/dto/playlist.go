package dto

import (
	"VidTube/internal/model"
	"time"
)

type PlaylistResponse struct {
	ID          uint64        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Owner       OwnerResponse `json:"owner"`
}

// PlaylistSummary 用户播放列表中的一项
type PlaylistSummary struct {
	PlaylistResponse
	VideoCount     int64  `json:"video_count"`
	FirstThumbnail string `json:"first_thumbnail"`
}

type PlaylistDetailResponse struct {
	PlaylistResponse
	Videos []VideoListItem `json:"videos"`
}

func ToPlaylistResponse(playlist *model.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
		Owner:       OwnerResponse{ID: playlist.OwnerID},
	}
}

func ToPlaylistSummaries(rows []model.PlaylistRow, owners model.Owners) []PlaylistSummary {
	response := make([]PlaylistSummary, 0, len(rows))
	for i := range rows {
		summary := PlaylistSummary{
			PlaylistResponse: ToPlaylistResponse(&rows[i].Playlist),
			VideoCount:       rows[i].VideoCount,
			FirstThumbnail:   rows[i].FirstThumbnail,
		}
		summary.Owner = ToOwnerResponse(owners, rows[i].OwnerID)
		response = append(response, summary)
	}
	return response
}

// owners包含播放列表所有者和每个视频的所有者
func ToPlaylistDetailResponse(playlist *model.Playlist, videos []model.VideoRow, owners model.Owners) PlaylistDetailResponse {
	resp := PlaylistDetailResponse{
		PlaylistResponse: ToPlaylistResponse(playlist),
		Videos:           ToVideoListItems(videos, owners),
	}
	resp.Owner = ToOwnerResponse(owners, playlist.OwnerID)
	return resp
}
