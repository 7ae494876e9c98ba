package repository

import (
	"VidTube/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	FindByID(ctx context.Context, playlistID uint64) (*model.Playlist, error)
	FindOwnerID(ctx context.Context, playlistID uint64) (uint64, error)
	Update(ctx context.Context, playlistID uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, playlistID uint64) (int64, error)
	ListByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]model.PlaylistRow, int64, error)

	// AddVideo 重复添加时什么都不做
	AddVideo(ctx context.Context, playlistID, videoID uint64) error
	RemoveVideo(ctx context.Context, playlistID, videoID uint64) (int64, error)
	DeleteEntries(ctx context.Context, playlistID uint64) error
	DeleteEntriesByVideo(ctx context.Context, videoID uint64) error

	WithTx(tx *gorm.DB) PlaylistRepository
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) WithTx(tx *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: tx}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *playlistRepository) FindByID(ctx context.Context, playlistID uint64) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := r.db.WithContext(ctx).First(&playlist, playlistID).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepository) FindOwnerID(ctx context.Context, playlistID uint64) (uint64, error) {
	var playlist model.Playlist
	if err := r.db.WithContext(ctx).Select("id", "owner_id").First(&playlist, playlistID).Error; err != nil {
		return 0, err
	}
	return playlist.OwnerID, nil
}

func (r *playlistRepository) Update(ctx context.Context, playlistID uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Playlist{}).Where("id = ?", playlistID).Updates(fields).Error
}

func (r *playlistRepository) Delete(ctx context.Context, playlistID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", playlistID).Delete(&model.Playlist{})
	return result.RowsAffected, result.Error
}

// 用户的播放列表，每个带视频数量和第一个视频的封面
func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]model.PlaylistRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []model.PlaylistRow{}
	if total == 0 {
		return rows, 0, nil
	}
	err := r.db.WithContext(ctx).Table("playlists").
		Select(`playlists.*,
			(SELECT COUNT(*) FROM playlist_videos WHERE playlist_videos.playlist_id = playlists.id) AS video_count,
			COALESCE((SELECT videos.thumbnail FROM playlist_videos JOIN videos ON videos.id = playlist_videos.video_id
				WHERE playlist_videos.playlist_id = playlists.id ORDER BY playlist_videos.id ASC LIMIT 1), '') AS first_thumbnail`).
		Where("playlists.owner_id = ?", ownerID).
		Order("playlists.created_at DESC").
		Order("playlists.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// 使用GORM的 OnConflict 来避免因为重复添加而报错，插入因唯一键冲突失败时什么都不做
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID uint64) error {
	entry := &model.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "video_id"}},
		DoNothing: true,
	}).Create(entry).Error
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})
	return result.RowsAffected, result.Error
}

func (r *playlistRepository) DeleteEntries(ctx context.Context, playlistID uint64) error {
	return r.db.WithContext(ctx).Where("playlist_id = ?", playlistID).Delete(&model.PlaylistVideo{}).Error
}

func (r *playlistRepository) DeleteEntriesByVideo(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{}).Error
}
