package model

import "time"

// 点赞的目标类型
const (
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
	LikeTargetTweet   = "tweet"
)

// 用户与目标（视频/评论/推文）的点赞关系，uniqueIndex利用的是数据库的“自动查重”能力，而不是gorm的
// 一个用户对同一个目标只能有一条点赞记录
type Like struct {
	ID         uint64 `gorm:"primarykey"`
	UserID     uint64 `gorm:"not null;uniqueIndex:idx_like_user_target"`
	TargetType string `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_user_target;index:idx_like_target"`
	TargetID   uint64 `gorm:"not null;uniqueIndex:idx_like_user_target;index:idx_like_target"`
	CreatedAt  time.Time
}

// 想精确控制表名，或表名不符合GORM的复数规则，就必须实现TableName()方法规定表名
func (Like) TableName() string {
	return "likes"
}
