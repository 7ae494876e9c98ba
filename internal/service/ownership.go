package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/repository"
	"VidTube/pkg/logger"
	"context"
)

// OwnerLookup 查询资源的所有者ID，资源不存在时返回gorm.ErrRecordNotFound
type OwnerLookup func(ctx context.Context, resourceID uint64) (uint64, error)

// OwnershipGuard 所有权校验，每种资源（视频/评论/推文/播放列表）一个实例
type OwnershipGuard struct {
	resource string
	lookup   OwnerLookup
}

func NewOwnershipGuard(resource string, lookup OwnerLookup) *OwnershipGuard {
	return &OwnershipGuard{resource: resource, lookup: lookup}
}

// IsOwner 资源不存在返回(false, nil)，查询失败返回基础设施错误，否则比较ID
func (g *OwnershipGuard) IsOwner(ctx context.Context, resourceID, accountID uint64) (bool, error) {
	ownerID, err := g.lookup(ctx, resourceID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		logger.Log.WithError(err).
			WithField("resource", g.resource).
			WithField("resource_id", resourceID).
			Error("查询资源所有者失败")
		return false, apperror.Infrastructure("查询"+g.resource+"失败", err)
	}
	return ownerID == accountID, nil
}

// Authorize 修改类操作使用：不存在->NotFound，不是所有者->Forbidden，查询失败->Infrastructure
func (g *OwnershipGuard) Authorize(ctx context.Context, resourceID, accountID uint64) error {
	ownerID, err := g.lookup(ctx, resourceID)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound(g.resource)
		}
		return apperror.Infrastructure("查询"+g.resource+"失败", err)
	}
	if ownerID != accountID {
		return apperror.Forbidden("无权操作该" + g.resource)
	}
	return nil
}
