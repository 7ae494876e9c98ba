package model

// Playlist 播放列表，同一个用户下名称唯一
type Playlist struct {
	BaseModel
	OwnerID     uint64 `gorm:"not null;uniqueIndex:idx_owner_name"`
	Name        string `gorm:"type:varchar(128);not null;uniqueIndex:idx_owner_name"`
	Description string `gorm:"type:text"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistVideo 播放列表中的视频，一个视频在同一个列表里最多出现一次，按ID（加入顺序）排序
type PlaylistVideo struct {
	BaseModel
	PlaylistID uint64 `gorm:"not null;uniqueIndex:idx_playlist_video"`
	VideoID    uint64 `gorm:"not null;uniqueIndex:idx_playlist_video;index"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
