package repository

// 读模型用到的相关子查询，外层表名固定，不接受用户输入拼接

const (
	videoLikeCountExpr    = "(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'video' AND likes.target_id = videos.id) AS like_count"
	videoCommentCountExpr = "(SELECT COUNT(*) FROM comments WHERE comments.video_id = videos.id) AS comment_count"
	videoIsLikedExpr      = "EXISTS (SELECT 1 FROM likes WHERE likes.target_type = 'video' AND likes.target_id = videos.id AND likes.user_id = ?) AS is_liked"

	ownerSubscribersExpr = "(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.channel_id = videos.owner_id) AS owner_subscribers"
	ownerSubscribedExpr  = "EXISTS (SELECT 1 FROM subscriptions WHERE subscriptions.channel_id = videos.owner_id AND subscriptions.subscriber_id = ?) AS is_subscribed"

	commentLikeCountExpr = "(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'comment' AND likes.target_id = comments.id) AS like_count"
	commentIsLikedExpr   = "EXISTS (SELECT 1 FROM likes WHERE likes.target_type = 'comment' AND likes.target_id = comments.id AND likes.user_id = ?) AS is_liked"

	tweetLikeCountExpr = "(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'tweet' AND likes.target_id = tweets.id) AS like_count"
	tweetIsLikedExpr   = "EXISTS (SELECT 1 FROM likes WHERE likes.target_type = 'tweet' AND likes.target_id = tweets.id AND likes.user_id = ?) AS is_liked"

	userSubscriberCountExpr   = "(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.channel_id = users.id) AS subscriber_count"
	userSubscribedToCountExpr = "(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.subscriber_id = users.id) AS subscribed_to_count"
	userIsSubscribedExpr      = "EXISTS (SELECT 1 FROM subscriptions WHERE subscriptions.channel_id = users.id AND subscriptions.subscriber_id = ?) AS is_subscribed"

	videoRowSelect = "videos.*, " + videoLikeCountExpr + ", " + videoCommentCountExpr + ", " + videoIsLikedExpr
)

// videoSortColumns 列表排序字段白名单，key是客户端传入的sortBy
var videoSortColumns = map[string]string{
	"views":      "views",
	"createdAt":  "created_at",
	"created_at": "created_at",
	"duration":   "duration",
}

// ResolveVideoSort 未知字段一律回退到created_at，sortType只有asc才升序
func ResolveVideoSort(sortBy, sortType string) (column string, desc bool) {
	column, ok := videoSortColumns[sortBy]
	if !ok {
		return "created_at", true
	}
	return column, sortType != "asc"
}
