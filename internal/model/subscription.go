package model

// Subscription 订阅关系：SubscriberID订阅了ChannelID这个频道（账号）
type Subscription struct {
	BaseModel
	SubscriberID uint64 `gorm:"not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    uint64 `gorm:"not null;uniqueIndex:idx_subscriber_channel;index"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
