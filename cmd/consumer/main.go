package main

import (
	"VidTube/internal/config"
	"VidTube/internal/event"
	"VidTube/internal/repository"
	"VidTube/internal/storage"
	"VidTube/internal/worker"
	"VidTube/pkg/database"
	"VidTube/pkg/logger"
	"VidTube/pkg/rabbitmq"
	"VidTube/pkg/redis"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// 消费者进程：连接数据库、Redis、RabbitMQ和对象存储，每个队列一个消费协程
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 连接数据库
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	// 播放数变化后要删掉视频缓存
	redisClient, err := redis.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	if err := rabbitmq.DeclareQueues(rabbitMQConn, event.Queues...); err != nil {
		logger.Log.Fatalf("RabbitMQ队列声明失败: %v", err)
	}
	media, err := storage.NewS3Storage(ctx, storage.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Log.Fatalf("对象存储初始化失败: %v", err)
	}

	videoRepo := repository.NewVideoRepository(db, redisClient, cfg.VideoCacheTTL)

	// 开始消费消息，任何一个消费者退出都会结束整个进程
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Consume(gctx, rabbitMQConn, event.QueueVideoView, worker.VideoViews(videoRepo),
			worker.DefaultRetryPolicy(event.QueueVideoViewDead))
	})
	g.Go(func() error {
		return worker.Consume(gctx, rabbitMQConn, event.QueueMediaRelease, worker.MediaRelease(media, cfg.MediaTimeout),
			worker.DefaultRetryPolicy(event.QueueMediaReleaseDead))
	})
	if err := g.Wait(); err != nil {
		logger.Log.Fatalf("消费者异常退出: %v", err)
	}
	logger.Log.Info("消费者已停止")
}
