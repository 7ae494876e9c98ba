package data

import (
	"VidTube/internal/repository"
	"context"

	"gorm.io/gorm"
)

// UnitOfWork 定义了我们事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行。
	// 它会为这个函数提供能在事务中工作的 Repositories，函数内只能使用这些Repositories。
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository。
type TransactionalRepositories struct {
	VideoRepo    repository.VideoRepository
	CommentRepo  repository.CommentRepository
	LikeRepo     repository.LikeRepository
	TweetRepo    repository.TweetRepository
	PlaylistRepo repository.PlaylistRepository
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db           *gorm.DB
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	tweetRepo    repository.TweetRepository
	playlistRepo repository.PlaylistRepository
}

// NewUnitOfWork 创建一个新的、基于GORM的“工作单元”。
// 注意，它接收的是原始的、非事务的 repositories。
func NewUnitOfWork(db *gorm.DB, videoRepo repository.VideoRepository, commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository, tweetRepo repository.TweetRepository, playlistRepo repository.PlaylistRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:           db,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		tweetRepo:    tweetRepo,
		playlistRepo: playlistRepo,
	}
}

// 契约：fn func(repos *TransactionalRepositories) error
// fn返回error时回滚，返回nil时提交
func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 临时创建“一次性”的、绑定了特定事务的Repo副本
		transactionalRepos := &TransactionalRepositories{
			VideoRepo:    u.videoRepo.WithTx(tx),
			CommentRepo:  u.commentRepo.WithTx(tx),
			LikeRepo:     u.likeRepo.WithTx(tx),
			TweetRepo:    u.tweetRepo.WithTx(tx),
			PlaylistRepo: u.playlistRepo.WithTx(tx),
		}
		return fn(transactionalRepos)
	})
}
