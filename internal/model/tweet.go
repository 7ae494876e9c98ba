package model

type Tweet struct {
	BaseModel
	OwnerID uint64 `gorm:"not null;index"`
	Content string `gorm:"type:text;not null"`
}

func (Tweet) TableName() string {
	return "tweets"
}
