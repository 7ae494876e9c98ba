package pagination

import (
	"VidTube/internal/apperror"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = "1"
	DefaultLimit = "10"
	MaxPageSize  = 100
)

// Params 解析后的分页参数，Page和PageSize总是>=1，Skip总是>=0
type Params struct {
	Page     int
	PageSize int
	Skip     int
}

// Meta 列表响应中的分页信息，没有下一页/上一页时NextPage/PrevPage为null
type Meta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
	NextPage    *int  `json:"next_page"`
	PrevPage    *int  `json:"prev_page"`
}

// Parse 解析分页参数：1、page和limit必须是整数 2、都必须>=1 3、limit超过上限时截断 4、page过大导致skip溢出时拒绝 5、skip=(page-1)*limit
func Parse(pageParam, limitParam string) (Params, error) {
	page, err := strconv.Atoi(strings.TrimSpace(pageParam))
	if err != nil || page < 1 {
		return Params{}, apperror.Validation("page", "page必须是正整数")
	}
	limit, err := strconv.Atoi(strings.TrimSpace(limitParam))
	if err != nil || limit < 1 {
		return Params{}, apperror.Validation("limit", "limit必须是正整数")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	// (page-1)*limit不能溢出int
	if page > (math.MaxInt-1)/limit+1 {
		return Params{}, apperror.Validation("page", "page超出范围")
	}
	return Params{
		Page:     page,
		PageSize: limit,
		Skip:     (page - 1) * limit,
	}, nil
}

// NewMeta 结合总数计算总页数和前后页
func NewMeta(total int64, p Params) Meta {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.PageSize)))
	}
	meta := Meta{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
	if meta.HasNext {
		next := p.Page + 1
		meta.NextPage = &next
	}
	if meta.HasPrev {
		prev := p.Page - 1
		meta.PrevPage = &prev
	}
	return meta
}
