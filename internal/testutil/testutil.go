// Package testutil 测试用的内存数据库和内存Redis
package testutil

import (
	"VidTube/internal/model"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试独立的内存SQLite，只有一个连接：事务内只能使用事务绑定的Repo，否则会互相等待
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// NewRedis 基于miniredis的客户端，测试结束自动关闭
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

// CreateUser 直接写库创建账号，密码字段不做哈希
func CreateUser(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Avatar:   "https://cdn.example.com/" + username + ".png",
		Password: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateVideo 直接写库创建视频
func CreateVideo(t testing.TB, db *gorm.DB, ownerID uint64, title string, published bool) *model.Video {
	t.Helper()
	video := &model.Video{
		OwnerID:   ownerID,
		Title:     title,
		VideoFile: "https://cdn.example.com/" + uuid.NewString() + ".mp4",
		Thumbnail: "https://cdn.example.com/" + uuid.NewString() + ".jpg",
		Duration:  12.5,
	}
	require.NoError(t, db.Create(video).Error)
	if published {
		require.NoError(t, db.Model(video).Update("is_published", true).Error)
		video.IsPublished = true
	}
	return video
}
