package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"context"
)

type DashboardService interface {
	ChannelStats(ctx context.Context, username string) (*model.ChannelStats, error)
	ChannelVideos(ctx context.Context, username string, viewerID uint64, params pagination.Params) (*Page[model.VideoRow], error)
}

type dashboardService struct {
	userRepo  repository.UserRepository
	videoRepo repository.VideoRepository
}

func NewDashboardService(userRepo repository.UserRepository, videoRepo repository.VideoRepository) DashboardService {
	return &dashboardService{userRepo: userRepo, videoRepo: videoRepo}
}

func (s *dashboardService) findChannel(ctx context.Context, username string) (*model.User, error) {
	handle := NormalizeUsername(username)
	if handle == "" {
		return nil, apperror.Validation("username", "用户名不能为空")
	}
	user, err := s.userRepo.FindByUsername(ctx, handle)
	if err != nil {
		return nil, notFoundOr(err, "频道", "查询频道失败")
	}
	return user, nil
}

// 频道统计：订阅者、视频数、总播放、总获赞，没有数据时都是0
func (s *dashboardService) ChannelStats(ctx context.Context, username string) (*model.ChannelStats, error) {
	user, err := s.findChannel(ctx, username)
	if err != nil {
		return nil, err
	}
	stats, err := s.userRepo.ChannelStats(ctx, user.ID)
	if err != nil {
		return nil, notFoundOr(err, "频道", "统计频道数据失败")
	}
	return stats, nil
}

// 频道下已发布的视频，最新的在前
func (s *dashboardService) ChannelVideos(ctx context.Context, username string, viewerID uint64, params pagination.Params) (*Page[model.VideoRow], error) {
	user, err := s.findChannel(ctx, username)
	if err != nil {
		return nil, err
	}
	filter := repository.VideoFilter{OwnerID: user.ID, PublishedOnly: true, SortBy: "created_at", SortType: "desc"}
	rows, total, err := s.videoRepo.List(ctx, filter, viewerID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询频道视频失败", err)
	}
	owners, err := loadOwners(ctx, s.userRepo, []uint64{user.ID})
	if err != nil {
		return nil, err
	}
	return newPage(rows, owners, total, params), nil
}
