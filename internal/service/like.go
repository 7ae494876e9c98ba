package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"context"
)

type LikeService interface {
	ToggleVideoLike(ctx context.Context, actorID, videoID uint64) (ToggleOutcome, error)
	ToggleCommentLike(ctx context.Context, actorID, commentID uint64) (ToggleOutcome, error)
	ToggleTweetLike(ctx context.Context, actorID, tweetID uint64) (ToggleOutcome, error)
	ListLikedVideos(ctx context.Context, actorID uint64, params pagination.Params) (*Page[model.VideoRow], error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
	userRepo    repository.UserRepository
}

func NewLikeService(likeRepo repository.LikeRepository, videoRepo repository.VideoRepository, commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository, userRepo repository.UserRepository) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
		userRepo:    userRepo,
	}
}

// 视频点赞开关：视频必须存在且对当前用户可见
func (s *likeService) ToggleVideoLike(ctx context.Context, actorID, videoID uint64) (ToggleOutcome, error) {
	if _, err := findVisibleVideo(ctx, s.videoRepo, videoID, actorID); err != nil {
		return "", err
	}
	return s.toggle(ctx, actorID, model.LikeTargetVideo, videoID)
}

func (s *likeService) ToggleCommentLike(ctx context.Context, actorID, commentID uint64) (ToggleOutcome, error) {
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		return "", notFoundOr(err, "评论", "查询评论失败")
	}
	return s.toggle(ctx, actorID, model.LikeTargetComment, commentID)
}

func (s *likeService) ToggleTweetLike(ctx context.Context, actorID, tweetID uint64) (ToggleOutcome, error) {
	if _, err := s.tweetRepo.FindByID(ctx, tweetID); err != nil {
		return "", notFoundOr(err, "推文", "查询推文失败")
	}
	return s.toggle(ctx, actorID, model.LikeTargetTweet, tweetID)
}

func (s *likeService) toggle(ctx context.Context, actorID uint64, targetType string, targetID uint64) (ToggleOutcome, error) {
	return toggle(ctx, "点赞操作", toggleOps{
		exists: func(ctx context.Context) (bool, error) {
			return s.likeRepo.Exists(ctx, actorID, targetType, targetID)
		},
		create: func(ctx context.Context) error {
			return s.likeRepo.Create(ctx, &model.Like{UserID: actorID, TargetType: targetType, TargetID: targetID})
		},
		remove: func(ctx context.Context) (int64, error) {
			return s.likeRepo.Delete(ctx, actorID, targetType, targetID)
		},
	})
}

// 当前用户点赞过的视频，最近点赞的在前
func (s *likeService) ListLikedVideos(ctx context.Context, actorID uint64, params pagination.Params) (*Page[model.VideoRow], error) {
	rows, total, err := s.videoRepo.ListLikedBy(ctx, actorID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询点赞视频失败", err)
	}
	owners, err := loadOwners(ctx, s.userRepo, videoOwnerIDs(rows))
	if err != nil {
		return nil, err
	}
	return newPage(rows, owners, total, params), nil
}
