package model

// Video结构，视频都要有什么？比如b站的视频，up主（所有者），标题，简介，播放地址，封面
type Video struct {
	BaseModel
	OwnerID     uint64  `gorm:"not null;index"` // 所有者ID，创建后不可修改
	Title       string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text"`
	VideoFile   string  `gorm:"not null"` // 视频播放地址
	Thumbnail   string  // 视频封面地址
	Duration    float64 `gorm:"default:0"` // 秒
	Views       uint64  `gorm:"default:0"`
	IsPublished bool    `gorm:"default:false;index"`
}

func (Video) TableName() string {
	return "videos"
}
