package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"context"
)

type TweetService interface {
	CreateTweet(ctx context.Context, actorID uint64, content string) (*model.Tweet, error)
	ListUserTweets(ctx context.Context, userID, viewerID uint64, params pagination.Params) (*Page[model.TweetRow], error)
	UpdateTweet(ctx context.Context, actorID, tweetID uint64, content *string) (*model.Tweet, error)
	DeleteTweet(ctx context.Context, actorID, tweetID uint64) error
}

type tweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	uow       data.UnitOfWork
	guard     *OwnershipGuard
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository, uow data.UnitOfWork) TweetService {
	return &tweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
		uow:       uow,
		guard:     NewOwnershipGuard("推文", tweetRepo.FindOwnerID),
	}
}

func (s *tweetService) CreateTweet(ctx context.Context, actorID uint64, content string) (*model.Tweet, error) {
	text, err := requireText("content", content, "推文内容不能为空")
	if err != nil {
		return nil, err
	}
	tweet := &model.Tweet{OwnerID: actorID, Content: text}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, apperror.Infrastructure("创建推文失败", err)
	}
	return tweet, nil
}

func (s *tweetService) ListUserTweets(ctx context.Context, userID, viewerID uint64, params pagination.Params) (*Page[model.TweetRow], error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户", "查询用户失败")
	}
	rows, total, err := s.tweetRepo.ListByOwner(ctx, userID, viewerID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询推文列表失败", err)
	}
	owners, err := loadOwners(ctx, s.userRepo, []uint64{userID})
	if err != nil {
		return nil, err
	}
	return newPage(rows, owners, total, params), nil
}

func (s *tweetService) UpdateTweet(ctx context.Context, actorID, tweetID uint64, content *string) (*model.Tweet, error) {
	fields := map[string]interface{}{}
	if err := optionalText(fields, "content", content, "推文内容不能为空"); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apperror.Validation("content", "至少需要提供一个要更新的字段")
	}
	return guardedMutation(ctx, s.guard, tweetID, actorID, func(ctx context.Context) (*model.Tweet, error) {
		if err := s.tweetRepo.Update(ctx, tweetID, fields); err != nil {
			return nil, apperror.Infrastructure("更新推文失败", err)
		}
		tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
		if err != nil {
			return nil, notFoundOr(err, "推文", "查询推文失败")
		}
		return tweet, nil
	})
}

func (s *tweetService) DeleteTweet(ctx context.Context, actorID, tweetID uint64) error {
	_, err := guardedMutation(ctx, s.guard, tweetID, actorID, func(ctx context.Context) (struct{}, error) {
		err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
			if err := repos.LikeRepo.DeleteByTargets(ctx, model.LikeTargetTweet, []uint64{tweetID}); err != nil {
				return err
			}
			_, err := repos.TweetRepo.Delete(ctx, tweetID)
			return err
		})
		if err != nil {
			return struct{}{}, apperror.Infrastructure("删除推文失败", err)
		}
		return struct{}{}, nil
	})
	return err
}
