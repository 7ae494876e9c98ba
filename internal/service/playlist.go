package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"context"
	"strings"
)

type UpdatePlaylistInput struct {
	Name        *string
	Description *string
}

type PlaylistDetail struct {
	Playlist *model.Playlist
	Videos   []model.VideoRow
	Owners   model.Owners // 包含播放列表所有者和每个视频的所有者
}

type PlaylistService interface {
	CreatePlaylist(ctx context.Context, actorID uint64, name, description string) (*model.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID, viewerID uint64) (*PlaylistDetail, error)
	ListUserPlaylists(ctx context.Context, userID uint64, params pagination.Params) (*Page[model.PlaylistRow], error)
	UpdatePlaylist(ctx context.Context, actorID, playlistID uint64, in UpdatePlaylistInput) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, actorID, playlistID uint64) error
	AddVideo(ctx context.Context, actorID, playlistID, videoID uint64) error
	RemoveVideo(ctx context.Context, actorID, playlistID, videoID uint64) error
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
	uow          data.UnitOfWork
	guard        *OwnershipGuard
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository,
	userRepo repository.UserRepository, uow data.UnitOfWork) PlaylistService {
	return &playlistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
		uow:          uow,
		guard:        NewOwnershipGuard("播放列表", playlistRepo.FindOwnerID),
	}
}

// 创建播放列表，同一个用户下名称重复返回Conflict
func (s *playlistService) CreatePlaylist(ctx context.Context, actorID uint64, name, description string) (*model.Playlist, error) {
	trimmed, err := requireText("name", name, "播放列表名称不能为空")
	if err != nil {
		return nil, err
	}
	playlist := &model.Playlist{OwnerID: actorID, Name: trimmed, Description: strings.TrimSpace(description)}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("同名播放列表已存在")
		}
		return nil, apperror.Infrastructure("创建播放列表失败", err)
	}
	return playlist, nil
}

// 播放列表详情：列表本身 + 按加入顺序的视频 + 所有相关账号
func (s *playlistService) GetPlaylist(ctx context.Context, playlistID, viewerID uint64) (*PlaylistDetail, error) {
	playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		return nil, notFoundOr(err, "播放列表", "查询播放列表失败")
	}
	videos, err := s.videoRepo.ListByPlaylist(ctx, playlistID, viewerID)
	if err != nil {
		return nil, apperror.Infrastructure("查询播放列表视频失败", err)
	}
	owners, err := loadOwners(ctx, s.userRepo, append(videoOwnerIDs(videos), playlist.OwnerID))
	if err != nil {
		return nil, err
	}
	return &PlaylistDetail{Playlist: playlist, Videos: videos, Owners: owners}, nil
}

func (s *playlistService) ListUserPlaylists(ctx context.Context, userID uint64, params pagination.Params) (*Page[model.PlaylistRow], error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户", "查询用户失败")
	}
	rows, total, err := s.playlistRepo.ListByOwner(ctx, userID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询播放列表失败", err)
	}
	owners, err := loadOwners(ctx, s.userRepo, []uint64{userID})
	if err != nil {
		return nil, err
	}
	return newPage(rows, owners, total, params), nil
}

func (s *playlistService) UpdatePlaylist(ctx context.Context, actorID, playlistID uint64, in UpdatePlaylistInput) (*model.Playlist, error) {
	fields := map[string]interface{}{}
	if err := optionalText(fields, "name", in.Name, "播放列表名称不能为空"); err != nil {
		return nil, err
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if len(fields) == 0 {
		return nil, apperror.Validation("", "至少需要提供一个要更新的字段")
	}
	return guardedMutation(ctx, s.guard, playlistID, actorID, func(ctx context.Context) (*model.Playlist, error) {
		if err := s.playlistRepo.Update(ctx, playlistID, fields); err != nil {
			if repository.IsDuplicateKey(err) {
				return nil, apperror.Conflict("同名播放列表已存在")
			}
			return nil, apperror.Infrastructure("更新播放列表失败", err)
		}
		playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
		if err != nil {
			return nil, notFoundOr(err, "播放列表", "查询播放列表失败")
		}
		return playlist, nil
	})
}

func (s *playlistService) DeletePlaylist(ctx context.Context, actorID, playlistID uint64) error {
	_, err := guardedMutation(ctx, s.guard, playlistID, actorID, func(ctx context.Context) (struct{}, error) {
		err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
			if err := repos.PlaylistRepo.DeleteEntries(ctx, playlistID); err != nil {
				return err
			}
			_, err := repos.PlaylistRepo.Delete(ctx, playlistID)
			return err
		})
		if err != nil {
			return struct{}{}, apperror.Infrastructure("删除播放列表失败", err)
		}
		return struct{}{}, nil
	})
	return err
}

// 加入视频：幂等，重复加入不报错；视频必须存在且对操作者可见
func (s *playlistService) AddVideo(ctx context.Context, actorID, playlistID, videoID uint64) error {
	_, err := guardedMutation(ctx, s.guard, playlistID, actorID, func(ctx context.Context) (struct{}, error) {
		if _, err := findVisibleVideo(ctx, s.videoRepo, videoID, actorID); err != nil {
			return struct{}{}, err
		}
		if err := s.playlistRepo.AddVideo(ctx, playlistID, videoID); err != nil {
			return struct{}{}, apperror.Infrastructure("加入播放列表失败", err)
		}
		return struct{}{}, nil
	})
	return err
}

// 移除视频：视频本来就不在列表中时同样视为成功
func (s *playlistService) RemoveVideo(ctx context.Context, actorID, playlistID, videoID uint64) error {
	_, err := guardedMutation(ctx, s.guard, playlistID, actorID, func(ctx context.Context) (struct{}, error) {
		if _, err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID); err != nil {
			return struct{}{}, apperror.Infrastructure("移出播放列表失败", err)
		}
		return struct{}{}, nil
	})
	return err
}
