package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"context"
)

type CommentService interface {
	AddComment(ctx context.Context, actorID, videoID uint64, content string) (*model.Comment, error)
	// 获取一个视频的评论，最新的在前
	ListComments(ctx context.Context, videoID, viewerID uint64, params pagination.Params) (*Page[model.CommentRow], error)
	UpdateComment(ctx context.Context, actorID, commentID uint64, content *string) (*model.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID uint64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
	uow         data.UnitOfWork
	guard       *OwnershipGuard
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository,
	userRepo repository.UserRepository, uow data.UnitOfWork) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		userRepo:    userRepo,
		uow:         uow,
		guard:       NewOwnershipGuard("评论", commentRepo.FindOwnerID),
	}
}

// 创建评论：1、校验内容 2、视频必须存在且可见 3、以当前用户为所有者写库
func (s *commentService) AddComment(ctx context.Context, actorID, videoID uint64, content string) (*model.Comment, error) {
	text, err := requireText("content", content, "评论内容不能为空")
	if err != nil {
		return nil, err
	}
	if _, err := findVisibleVideo(ctx, s.videoRepo, videoID, actorID); err != nil {
		return nil, err
	}
	newComment := &model.Comment{
		VideoID: videoID,
		OwnerID: actorID,
		Content: text,
	}
	if err := s.commentRepo.Create(ctx, newComment); err != nil {
		return nil, apperror.Infrastructure("创建评论失败", err)
	}
	return newComment, nil
}

// 获取视频的评论列表：1、确认视频可见 2、分页查询评论读模型 3、一次性查询所有评论者并在内存中拼装
func (s *commentService) ListComments(ctx context.Context, videoID, viewerID uint64, params pagination.Params) (*Page[model.CommentRow], error) {
	if _, err := findVisibleVideo(ctx, s.videoRepo, videoID, viewerID); err != nil {
		return nil, err
	}
	rows, total, err := s.commentRepo.ListByVideo(ctx, videoID, viewerID, params.Skip, params.PageSize)
	if err != nil {
		return nil, apperror.Infrastructure("查询评论列表失败", err)
	}
	ids := make([]uint64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.OwnerID)
	}
	owners, err := loadOwners(ctx, s.userRepo, ids)
	if err != nil {
		return nil, err
	}
	return newPage(rows, owners, total, params), nil
}

func (s *commentService) UpdateComment(ctx context.Context, actorID, commentID uint64, content *string) (*model.Comment, error) {
	fields := map[string]interface{}{}
	if err := optionalText(fields, "content", content, "评论内容不能为空"); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apperror.Validation("content", "至少需要提供一个要更新的字段")
	}
	return guardedMutation(ctx, s.guard, commentID, actorID, func(ctx context.Context) (*model.Comment, error) {
		if err := s.commentRepo.Update(ctx, commentID, fields); err != nil {
			return nil, apperror.Infrastructure("更新评论失败", err)
		}
		comment, err := s.commentRepo.FindByID(ctx, commentID)
		if err != nil {
			return nil, notFoundOr(err, "评论", "查询评论失败")
		}
		return comment, nil
	})
}

// 删除评论，同一个事务里删掉评论上的点赞
func (s *commentService) DeleteComment(ctx context.Context, actorID, commentID uint64) error {
	_, err := guardedMutation(ctx, s.guard, commentID, actorID, func(ctx context.Context) (struct{}, error) {
		err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
			if err := repos.LikeRepo.DeleteByTargets(ctx, model.LikeTargetComment, []uint64{commentID}); err != nil {
				return err
			}
			_, err := repos.CommentRepo.Delete(ctx, commentID)
			return err
		})
		if err != nil {
			return struct{}{}, apperror.Infrastructure("删除评论失败", err)
		}
		return struct{}{}, nil
	})
	return err
}
