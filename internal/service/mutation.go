package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/repository"
	"context"
	"strings"
)

// ToggleOutcome 开关类操作（点赞/订阅）的结果
type ToggleOutcome string

const (
	ToggleCreated ToggleOutcome = "created"
	ToggleRemoved ToggleOutcome = "removed"
)

// toggleOps 一组开关操作：exists查询当前状态，create建立关系，remove删除关系并返回影响行数
type toggleOps struct {
	exists func(ctx context.Context) (bool, error)
	create func(ctx context.Context) error
	remove func(ctx context.Context) (int64, error)
}

// toggle 存在就删除，不存在就创建
// 并发下可能“输掉竞争”：创建时撞上唯一索引，说明已经是目标状态，按created返回；删除影响0行同理按removed返回
func toggle(ctx context.Context, op string, ops toggleOps) (ToggleOutcome, error) {
	exists, err := ops.exists(ctx)
	if err != nil {
		return "", apperror.Infrastructure(op+"失败", err)
	}
	if exists {
		if _, err := ops.remove(ctx); err != nil {
			return "", apperror.Infrastructure(op+"失败", err)
		}
		return ToggleRemoved, nil
	}
	if err := ops.create(ctx); err != nil {
		if repository.IsDuplicateKey(err) {
			return ToggleCreated, nil
		}
		return "", apperror.Infrastructure(op+"失败", err)
	}
	return ToggleCreated, nil
}

// guardedMutation 修改/删除的公共流程：先校验所有权，再执行具体操作
func guardedMutation[T any](ctx context.Context, guard *OwnershipGuard, resourceID, actorID uint64, apply func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := guard.Authorize(ctx, resourceID, actorID); err != nil {
		return zero, err
	}
	return apply(ctx)
}

// requireText 必填文本：去掉首尾空白后不能为空
func requireText(field, value, message string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperror.Validation(field, message)
	}
	return trimmed, nil
}

// optionalText 可选更新字段：nil表示未提供；提供了就不能是空白
func optionalText(fields map[string]interface{}, column string, value *string, message string) error {
	if value == nil {
		return nil
	}
	trimmed, err := requireText(column, *value, message)
	if err != nil {
		return err
	}
	fields[column] = trimmed
	return nil
}

// notFoundOr gorm没找到记录时转换为NotFound，其他错误都是基础设施错误
func notFoundOr(err error, resource, op string) error {
	if repository.IsNotFound(err) {
		return apperror.NotFound(resource)
	}
	return apperror.Infrastructure(op, err)
}
