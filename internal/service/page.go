package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"context"
)

// Page 分页列表：Items是读模型，Owners是批量加载后的账号投影，由DTO层拼装
type Page[T any] struct {
	Items  []T
	Owners model.Owners
	Meta   pagination.Meta
}

func newPage[T any](items []T, owners model.Owners, total int64, params pagination.Params) *Page[T] {
	if items == nil {
		items = []T{}
	}
	if owners == nil {
		owners = model.Owners{}
	}
	return &Page[T]{Items: items, Owners: owners, Meta: pagination.NewMeta(total, params)}
}

// loadOwners 去重后一次性查询所有者，避免N+1
func loadOwners(ctx context.Context, users repository.UserRepository, ids []uint64) (model.Owners, error) {
	seen := make(map[uint64]struct{}, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	owners, err := users.FindProfiles(ctx, unique)
	if err != nil {
		return nil, apperror.Infrastructure("加载账号信息失败", err)
	}
	return owners, nil
}

func videoOwnerIDs(rows []model.VideoRow) []uint64 {
	ids := make([]uint64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.OwnerID)
	}
	return ids
}
