// cmd/seeder/main.go

package main

import (
	"VidTube/internal/config"
	"VidTube/internal/model"
	"VidTube/internal/service"
	"VidTube/pkg/database"
	"fmt"
	"log"
	"math/rand"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	userCount         = 100
	videoCount        = 500
	commentCount      = 2000
	likeCount         = 3000
	subscriptionCount = 800
	tweetCount        = 300
	playlistCount     = 150
	playlistItemCount = 1000
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	// 和server使用同一份.env配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	fmt.Println("🧹 正在清理旧数据...")
	// 注意：这将删除所有数据！
	if err := db.Migrator().DropTable(model.All()...); err != nil {
		log.Fatalf("❌ 旧表删除失败: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}
	fmt.Println("✅ 数据库迁移成功!")

	// --- 3. 创建用户 ---
	fmt.Println("👥 正在创建用户...")
	// 所有用户共用默认密码 "password"，哈希一次就够了
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}
	userIDs := make([]uint64, 0, userCount)
	for i := 0; i < userCount; i++ {
		// faker生成的用户名可能重复，加上序号保证唯一
		username := service.NormalizeUsername(fmt.Sprintf("%s_%d", faker.Username(), i))
		user := model.User{
			Username: username,
			Email:    username + "@example.com",
			FullName: faker.Name(),
			Avatar:   "https://test.com/avatar.png",
			Password: string(hashedPassword),
		}
		mustCreate(db, &user)
		userIDs = append(userIDs, user.ID)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", len(userIDs))

	// --- 4. 创建视频 ---
	fmt.Println("🎬 正在创建视频...")
	videoIDs := make([]uint64, 0, videoCount)
	for i := 0; i < videoCount; i++ {
		video := model.Video{
			OwnerID:     pick(userIDs),
			Title:       faker.Sentence(),  // 生成一个随机的句子作为标题
			Description: faker.Paragraph(), // 生成一个随机的段落作为简介
			VideoFile:   "https://test.com/video.mp4",
			Thumbnail:   "https://test.com/cover.jpg",
			Duration:    float64(rand.Intn(3600) + 1),
			Views:       uint64(rand.Intn(100000)),
		}
		mustCreate(db, &video)
		// 大约九成的视频是已发布的
		if rand.Intn(10) != 0 {
			db.Model(&video).Update("is_published", true)
		}
		videoIDs = append(videoIDs, video.ID)
	}
	fmt.Printf("✅ 成功创建 %d 个视频!\n", len(videoIDs))

	// --- 5. 评论 ---
	fmt.Println("💬 正在创建评论...")
	commentIDs := make([]uint64, 0, commentCount)
	for i := 0; i < commentCount; i++ {
		comment := model.Comment{
			VideoID: pick(videoIDs),
			OwnerID: pick(userIDs),
			Content: faker.Sentence(),
		}
		mustCreate(db, &comment)
		commentIDs = append(commentIDs, comment.ID)
	}
	fmt.Printf("✅ 成功创建 %d 条评论!\n", len(commentIDs))

	// --- 6. 推文 ---
	fmt.Println("🐦 正在创建推文...")
	tweetIDs := make([]uint64, 0, tweetCount)
	for i := 0; i < tweetCount; i++ {
		tweet := model.Tweet{OwnerID: pick(userIDs), Content: faker.Sentence()}
		mustCreate(db, &tweet)
		tweetIDs = append(tweetIDs, tweet.ID)
	}
	fmt.Printf("✅ 成功创建 %d 条推文!\n", len(tweetIDs))

	// --- 7. 随机点赞，目标在视频/评论/推文之间随机 ---
	fmt.Println("👍 正在创建随机点赞...")
	for i := 0; i < likeCount; i++ {
		like := model.Like{UserID: pick(userIDs)}
		switch rand.Intn(3) {
		case 0:
			like.TargetType, like.TargetID = model.LikeTargetVideo, pick(videoIDs)
		case 1:
			like.TargetType, like.TargetID = model.LikeTargetComment, pick(commentIDs)
		default:
			like.TargetType, like.TargetID = model.LikeTargetTweet, pick(tweetIDs)
		}
		// 使用GORM的 OnConflict 来避免因为重复点赞而报错
		// 这会尝试插入，如果因为唯一键冲突失败，就什么都不做
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机点赞!\n", likeCount)

	// --- 8. 订阅，不能订阅自己 ---
	fmt.Println("🔔 正在创建订阅关系...")
	for i := 0; i < subscriptionCount; i++ {
		subscriber, channel := pick(userIDs), pick(userIDs)
		if subscriber == channel {
			continue
		}
		db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Subscription{SubscriberID: subscriber, ChannelID: channel})
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个订阅!\n", subscriptionCount)

	// --- 9. 播放列表 ---
	fmt.Println("📂 正在创建播放列表...")
	playlistIDs := make([]uint64, 0, playlistCount)
	for i := 0; i < playlistCount; i++ {
		playlist := model.Playlist{
			OwnerID:     pick(userIDs),
			Name:        fmt.Sprintf("%s #%d", faker.Word(), i),
			Description: faker.Sentence(),
		}
		mustCreate(db, &playlist)
		playlistIDs = append(playlistIDs, playlist.ID)
	}
	for i := 0; i < playlistItemCount; i++ {
		db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.PlaylistVideo{PlaylistID: pick(playlistIDs), VideoID: pick(videoIDs)})
	}
	fmt.Printf("✅ 成功创建 %d 个播放列表!\n", len(playlistIDs))

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}

func pick(ids []uint64) uint64 {
	return ids[rand.Intn(len(ids))]
}

func mustCreate(db *gorm.DB, value interface{}) {
	if err := db.Create(value).Error; err != nil {
		log.Fatalf("❌ 写入失败: %v", err)
	}
}
