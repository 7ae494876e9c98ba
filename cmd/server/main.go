package main

import (
	"VidTube/internal/config"
	"VidTube/internal/data"
	"VidTube/internal/event"
	"VidTube/internal/handler"
	"VidTube/internal/middleware"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/internal/router"
	"VidTube/internal/service"
	"VidTube/internal/storage"
	"VidTube/pkg/database"
	"VidTube/pkg/logger"
	"VidTube/pkg/rabbitmq"
	"VidTube/pkg/redis"
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 读取.env和环境变量
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("配置不完整: %v", err)
	}
	// 初始化logger
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	ctx := context.Background()

	// 初始化Redis
	redisClient, err := redis.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ，队列提前声明好，消费者晚启动也不会丢消息
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close() // 确保程序退出时关闭连接
	if err := rabbitmq.DeclareQueues(rabbitMQConn, event.Queues...); err != nil {
		logger.Log.Fatalf("RabbitMQ队列声明失败: %v", err)
	}
	logger.Log.Info("RabbitMQ连接成功")

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")
	// db.AutoMigrate(),没有这个表就创建,没有属性列则创建列,没有约束则增加约束;不会主动删除和修改
	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	media, err := storage.NewS3Storage(ctx, storage.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Log.Fatalf("对象存储初始化失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient, cfg.VideoCacheTTL)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)

	uow := data.NewUnitOfWork(db, videoRepo, commentRepo, likeRepo, tweetRepo, playlistRepo)
	publisher := rabbitmq.NewPublisher(rabbitMQConn)

	userService := service.NewUserService(userRepo, media, service.TokenConfig{SecretKey: cfg.JWTSecretKey, TTL: cfg.JWTTTL}, cfg.MediaTimeout)
	videoService := service.NewVideoService(videoRepo, userRepo, uow, media, publisher, cfg.MediaTimeout)
	commentService := service.NewCommentService(commentRepo, videoRepo, userRepo, uow)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, userRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo)
	tweetService := service.NewTweetService(tweetRepo, userRepo, uow)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo, uow)
	dashboardService := service.NewDashboardService(userRepo, videoRepo)

	handlers := router.Handlers{
		User:         handler.NewUserHandler(userService, cfg.UploadDir),
		Video:        handler.NewVideoHandler(videoService, cfg.UploadDir),
		Comment:      handler.NewCommentHandler(commentService),
		Like:         handler.NewLikeHandler(likeService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	}

	gin.SetMode(cfg.GinMode)
	r, err := router.SetupRouter(router.Options{
		JWTSecret:   cfg.JWTSecretKey,
		RateLimiter: middleware.NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, 5*time.Minute),
	}, handlers)
	if err != nil {
		logger.Log.Fatalf("路由初始化失败: %v", err)
	}
	logger.Log.Printf("服务器将在: %s端口启动", cfg.AppPort)

	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
