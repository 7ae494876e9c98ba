package event

// 遵循：项目名.业务领域.实体/功能
const (
	QueueVideoView    = "vidtube.video_view.queue"
	QueueMediaRelease = "vidtube.media_release.queue"

	// 重试次数用完的消息停放在这里，等人工处理
	QueueVideoViewDead    = "vidtube.video_view.dead.queue"
	QueueMediaReleaseDead = "vidtube.media_release.dead.queue"
)

// Queues 服务端和消费者启动时都需要声明的队列
var Queues = []string{QueueVideoView, QueueMediaRelease, QueueVideoViewDead, QueueMediaReleaseDead}

// VideoViewMessage 已发布视频被观看一次，消费者负责views+1
type VideoViewMessage struct {
	VideoID  uint64 `json:"video_id"`
	ViewerID uint64 `json:"viewer_id,omitempty"`
}

// MediaReleaseMessage 数据库删除成功但媒体文件释放失败，由消费者重试释放
type MediaReleaseMessage struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}
