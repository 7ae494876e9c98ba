package model

import (
	"time"
)

// 由于gorm的基本结构中ID是uint类型，我想都统一成uint64，所以自己搞了个base结构体
// 不带DeletedAt：软删除的行仍会占用唯一索引，再次点赞/订阅会冲突，所以统一硬删除
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
