package model

import "time"

// 读模型：查询时通过子查询实时计算的统计字段，不落库也不缓存
// 所有计数都来自COUNT(*)子查询，关联数据不存在时是0/false，而不是缺失

// OwnerProfile 对外展示的账号投影，不含邮箱和密码
type OwnerProfile struct {
	ID       uint64
	Username string
	Avatar   string
}

// Owners 按账号ID批量加载的投影，在内存中拼装到各个条目上
type Owners map[uint64]OwnerProfile

type VideoRow struct {
	Video
	LikeCount    int64
	CommentCount int64
	IsLiked      bool
}

type VideoDetailRow struct {
	VideoRow
	OwnerSubscribers int64
	IsSubscribed     bool
}

type CommentRow struct {
	Comment
	LikeCount int64
	IsLiked   bool
}

type TweetRow struct {
	Tweet
	LikeCount int64
	IsLiked   bool
}

type PlaylistRow struct {
	Playlist
	VideoCount     int64
	FirstThumbnail string
}

// ChannelRow 频道主页
type ChannelRow struct {
	ID                uint64
	Username          string
	FullName          string
	Avatar            string
	CoverImage        string
	CreatedAt         time.Time
	SubscriberCount   int64
	SubscribedToCount int64
	IsSubscribed      bool
}

// ChannelSummaryRow 订阅者列表、已订阅频道列表中的一项
type ChannelSummaryRow struct {
	ID              uint64
	Username        string
	FullName        string
	Avatar          string
	SubscriberCount int64
	SubscribedAt    time.Time
}

// ChannelStats 创作者后台的频道统计
type ChannelStats struct {
	ID               uint64
	Username         string
	Avatar           string
	TotalSubscribers int64
	TotalVideos      int64
	TotalViews       int64
	TotalLikes       int64
}
