package router

import (
	"VidTube/internal/handler"
	"VidTube/internal/middleware"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User         handler.UserHandler
	Video        handler.VideoHandler
	Comment      handler.CommentHandler
	Like         handler.LikeHandler
	Subscription handler.SubscriptionHandler
	Tweet        handler.TweetHandler
	Playlist     handler.PlaylistHandler
	Dashboard    handler.DashboardHandler
}

// Options JWTSecret用于校验令牌；RateLimiter为nil时不限流
type Options struct {
	JWTSecret   string
	RateLimiter *middleware.IPRateLimiter
}

// SetupRouter 所有修改类接口都注册在authorized分组下，公开接口只有GET和注册/登录
func SetupRouter(opts Options, h Handlers) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), gzip.Gzip(gzip.DefaultCompression))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})

	apiV1 := r.Group("/api/v1")
	{
		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", h.User.Register)
			userGroup.POST("/login", h.User.Login)
		}

		// 公开接口：带了有效token时返回“是否点赞/订阅”等与访问者相关的字段
		public := apiV1.Group("/")
		public.Use(middleware.OptionalAuth(opts.JWTSecret))
		{
			public.GET("/feed", h.Video.ListVideos)
			public.GET("/videos", h.Video.ListVideos)
			public.GET("/videos/:video_id", h.Video.GetVideoByID)
			public.GET("/videos/:video_id/comments", h.Comment.ListComments)

			public.GET("/channels/:username", h.User.GetChannelProfile)
			public.GET("/channels/:username/stats", h.Dashboard.ChannelStats)
			public.GET("/channels/:username/videos", h.Dashboard.ChannelVideos)

			public.GET("/users/:user_id/tweets", h.Tweet.ListUserTweets)
			public.GET("/users/:user_id/playlists", h.Playlist.ListUserPlaylists)
			public.GET("/users/:user_id/subscribers", h.Subscription.ListSubscribers)
			public.GET("/users/:user_id/subscriptions", h.Subscription.ListSubscribedChannels)

			public.GET("/playlists/:playlist_id", h.Playlist.GetPlaylist)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware(opts.JWTSecret))
		if opts.RateLimiter != nil {
			authorized.Use(middleware.RateLimit(opts.RateLimiter))
		}
		{
			authorized.GET("/me", h.User.GetCurrentUser)
			authorized.PATCH("/me", h.User.UpdateAccount)
			authorized.POST("/me/password", h.User.ChangePassword)
			authorized.PATCH("/me/avatar", h.User.UpdateAvatar)
			authorized.PATCH("/me/cover-image", h.User.UpdateCoverImage)
			authorized.GET("/me/liked-videos", h.Like.ListLikedVideos)

			authorized.POST("/videos", h.Video.PublishVideo)
			authorized.PATCH("/videos/:video_id", h.Video.UpdateVideo)
			authorized.DELETE("/videos/:video_id", h.Video.DeleteVideo)
			authorized.PATCH("/videos/:video_id/publish", h.Video.TogglePublish)

			authorized.POST("/videos/:video_id/comments", h.Comment.AddComment)
			authorized.PATCH("/comments/:comment_id", h.Comment.UpdateComment)
			authorized.DELETE("/comments/:comment_id", h.Comment.DeleteComment)

			authorized.POST("/videos/:video_id/like", h.Like.ToggleVideoLike)
			authorized.POST("/comments/:comment_id/like", h.Like.ToggleCommentLike)
			authorized.POST("/tweets/:tweet_id/like", h.Like.ToggleTweetLike)

			authorized.POST("/subscriptions/:channel_id", h.Subscription.ToggleSubscription)

			authorized.POST("/tweets", h.Tweet.CreateTweet)
			authorized.PATCH("/tweets/:tweet_id", h.Tweet.UpdateTweet)
			authorized.DELETE("/tweets/:tweet_id", h.Tweet.DeleteTweet)

			authorized.POST("/playlists", h.Playlist.CreatePlaylist)
			authorized.PATCH("/playlists/:playlist_id", h.Playlist.UpdatePlaylist)
			authorized.DELETE("/playlists/:playlist_id", h.Playlist.DeletePlaylist)
			authorized.PUT("/playlists/:playlist_id/videos/:video_id", h.Playlist.AddVideo)
			authorized.DELETE("/playlists/:playlist_id/videos/:video_id", h.Playlist.RemoveVideo)
		}
	}

	return r, nil
}
