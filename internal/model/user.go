package model

// User 账号，也是“频道”，Username就是频道的handle
type User struct {
	BaseModel
	Username   string `gorm:"type:varchar(64);uniqueIndex;not null"` // 写入前统一小写+去空格
	Email      string `gorm:"type:varchar(128);uniqueIndex;not null"`
	FullName   string `gorm:"type:varchar(128);not null"`
	Avatar     string
	CoverImage string
	Password   string `gorm:"not null"` // bcrypt哈希
}

func (User) TableName() string {
	return "users"
}
