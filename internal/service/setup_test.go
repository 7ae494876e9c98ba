package service

import (
	"VidTube/internal/data"
	"VidTube/internal/repository"
	"VidTube/internal/storage"
	"VidTube/internal/testutil"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStorage 记录上传和释放的文件，failRelease为true时释放总是失败
type fakeStorage struct {
	mu          sync.Mutex
	stored      []string
	released    []string
	failStore   bool
	failRelease bool
}

func (f *fakeStorage) Store(ctx context.Context, localPath string) (storage.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStore {
		return storage.MediaAsset{}, errors.New("upload failed")
	}
	url := "https://cdn.example.com/" + uuid.NewString() + "-" + localPath
	f.stored = append(f.stored, url)
	return storage.MediaAsset{URL: url, Duration: 42}, nil
}

func (f *fakeStorage) Release(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRelease {
		return errors.New("release failed")
	}
	f.released = append(f.released, url)
	return nil
}

func (f *fakeStorage) releasedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.released...)
}

type published struct {
	queue string
	msg   interface{}
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *fakePublisher) Publish(ctx context.Context, queue string, msg interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{queue: queue, msg: msg})
	return nil
}

func (p *fakePublisher) byQueue(queue string) []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []interface{}
	for _, m := range p.msgs {
		if m.queue == queue {
			out = append(out, m.msg)
		}
	}
	return out
}

// testEnv 基于内存SQLite的完整服务组装
type testEnv struct {
	db        *gorm.DB
	media     *fakeStorage
	publisher *fakePublisher

	users         UserService
	videos        VideoService
	comments      CommentService
	likes         LikeService
	subscriptions SubscriptionService
	tweets        TweetService
	playlists     PlaylistService
	dashboard     DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, rdb, time.Minute)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	uow := data.NewUnitOfWork(db, videoRepo, commentRepo, likeRepo, tweetRepo, playlistRepo)

	media := &fakeStorage{}
	publisher := &fakePublisher{}
	token := TokenConfig{SecretKey: "test-secret", TTL: time.Hour}

	return &testEnv{
		db:            db,
		media:         media,
		publisher:     publisher,
		users:         NewUserService(userRepo, media, token, time.Second),
		videos:        NewVideoService(videoRepo, userRepo, uow, media, publisher, time.Second),
		comments:      NewCommentService(commentRepo, videoRepo, userRepo, uow),
		likes:         NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, userRepo),
		subscriptions: NewSubscriptionService(subRepo, userRepo),
		tweets:        NewTweetService(tweetRepo, userRepo, uow),
		playlists:     NewPlaylistService(playlistRepo, videoRepo, userRepo, uow),
		dashboard:     NewDashboardService(userRepo, videoRepo),
	}
}

func strPtr(s string) *string { return &s }
