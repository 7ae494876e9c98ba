package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"context"
)

type SubscriptionService interface {
	ToggleSubscription(ctx context.Context, actorID, channelID uint64) (ToggleOutcome, error)
	ListSubscribers(ctx context.Context, channelID uint64, params pagination.Params) (*Page[model.ChannelSummaryRow], error)
	ListSubscribedChannels(ctx context.Context, subscriberID uint64, params pagination.Params) (*Page[model.ChannelSummaryRow], error)
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo}
}

// 订阅开关：1、不能订阅自己 2、频道必须存在 3、存在则取消，不存在则订阅
func (s *subscriptionService) ToggleSubscription(ctx context.Context, actorID, channelID uint64) (ToggleOutcome, error) {
	if actorID == channelID {
		return "", apperror.Validation("channel_id", "不能订阅自己")
	}
	if err := s.requireAccount(ctx, channelID, "频道"); err != nil {
		return "", err
	}
	return toggle(ctx, "订阅操作", toggleOps{
		exists: func(ctx context.Context) (bool, error) {
			return s.subRepo.Exists(ctx, actorID, channelID)
		},
		create: func(ctx context.Context) error {
			return s.subRepo.Create(ctx, &model.Subscription{SubscriberID: actorID, ChannelID: channelID})
		},
		remove: func(ctx context.Context) (int64, error) {
			return s.subRepo.Delete(ctx, actorID, channelID)
		},
	})
}

func (s *subscriptionService) ListSubscribers(ctx context.Context, channelID uint64, params pagination.Params) (*Page[model.ChannelSummaryRow], error) {
	if err := s.requireAccount(ctx, channelID, "频道"); err != nil {
		return nil, err
	}
	rows, total, err := s.subRepo.ListSubscribers(ctx, channelID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询订阅者失败", err)
	}
	return newPage(rows, nil, total, params), nil
}

func (s *subscriptionService) ListSubscribedChannels(ctx context.Context, subscriberID uint64, params pagination.Params) (*Page[model.ChannelSummaryRow], error) {
	if err := s.requireAccount(ctx, subscriberID, "用户"); err != nil {
		return nil, err
	}
	rows, total, err := s.subRepo.ListSubscribedChannels(ctx, subscriberID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询已订阅频道失败", err)
	}
	return newPage(rows, nil, total, params), nil
}

func (s *subscriptionService) requireAccount(ctx context.Context, userID uint64, resource string) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return notFoundOr(err, resource, "查询"+resource+"失败")
	}
	return nil
}
