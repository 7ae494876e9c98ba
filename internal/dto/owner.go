package dto

import "VidTube/internal/model"

// OwnerResponse 是在DTO中使用的、简化的账号信息，不包含邮箱和密码
type OwnerResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ToOwnerResponse 在批量加载的账号中查找，找不到时至少返回ID
func ToOwnerResponse(owners model.Owners, ownerID uint64) OwnerResponse {
	if p, ok := owners[ownerID]; ok {
		return OwnerResponse{ID: p.ID, Username: p.Username, Avatar: p.Avatar}
	}
	return OwnerResponse{ID: ownerID}
}
