package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// IsDuplicateKey 判断是否唯一索引冲突：优先看gorm翻译后的错误，没开TranslateError时兜底判断MySQL的1062
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	// 错误号 1062 就是 "Duplicate entry"
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// IsNotFound 记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
