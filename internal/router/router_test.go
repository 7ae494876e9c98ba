package router

import (
	"VidTube/internal/data"
	"VidTube/internal/handler"
	"VidTube/internal/middleware"
	"VidTube/internal/repository"
	"VidTube/internal/service"
	"VidTube/internal/storage"
	"VidTube/internal/testutil"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-secret"

type memStorage struct {
	released []string
}

func (m *memStorage) Store(ctx context.Context, localPath string) (storage.MediaAsset, error) {
	return storage.MediaAsset{URL: "https://cdn.example.com/" + uuid.NewString() + filepath.Ext(localPath)}, nil
}

func (m *memStorage) Release(ctx context.Context, url string) error {
	m.released = append(m.released, url)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
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
	media := &memStorage{}
	uploadDir := t.TempDir()

	h := Handlers{
		User:         handler.NewUserHandler(service.NewUserService(userRepo, media, service.TokenConfig{SecretKey: testSecret, TTL: time.Hour}, time.Second), uploadDir),
		Video:        handler.NewVideoHandler(service.NewVideoService(videoRepo, userRepo, uow, media, nil, time.Second), uploadDir),
		Comment:      handler.NewCommentHandler(service.NewCommentService(commentRepo, videoRepo, userRepo, uow)),
		Like:         handler.NewLikeHandler(service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, userRepo)),
		Subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(subRepo, userRepo)),
		Tweet:        handler.NewTweetHandler(service.NewTweetService(tweetRepo, userRepo, uow)),
		Playlist:     handler.NewPlaylistHandler(service.NewPlaylistService(playlistRepo, videoRepo, userRepo, uow)),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(userRepo, videoRepo)),
	}
	r, err := SetupRouter(Options{JWTSecret: testSecret, RateLimiter: middleware.NewIPRateLimiter(1000, 1000, time.Minute)}, h)
	require.NoError(t, err)
	return r, media
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) (string, uint64) {
	t.Helper()
	code, _ := doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": username, "email": username + "@example.com", "full_name": username, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{"login": username, "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	var payload struct {
		Token string `json:"token"`
		User  struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload.Token, payload.User.ID
}

// 每一个修改类路由都必须经过认证中间件
func TestMutatingRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)
	public := map[string]bool{
		"POST /api/v1/users/register": true,
		"POST /api/v1/users/login":    true,
	}
	checked := 0
	for _, route := range r.Routes() {
		if route.Method == http.MethodGet || public[route.Method+" "+route.Path] {
			continue
		}
		path := strings.NewReplacer(":video_id", "1", ":comment_id", "1", ":tweet_id", "1",
			":playlist_id", "1", ":channel_id", "1").Replace(route.Path)
		req := httptest.NewRequest(route.Method, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.Method, route.Path)
		checked++
	}
	assert.Greater(t, checked, 20)

	for _, path := range []string{"/api/v1/me", "/api/v1/me/liked-videos"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestPublishVideoRequiresDescription(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceToken, _ := registerAndLogin(t, r, "alice")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "t"))
	part, err := mw.CreateFormFile("videoFile", "clip.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "description", resp.Field)
}

func TestVideoFlowOverHTTP(t *testing.T) {
	r, media := newTestRouter(t)
	aliceToken, _ := registerAndLogin(t, r, "alice")
	bobToken, _ := registerAndLogin(t, r, "bob")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "t"))
	require.NoError(t, mw.WriteField("description", "d"))
	require.NoError(t, mw.WriteField("duration", "12.5"))
	part, err := mw.CreateFormFile("videoFile", "clip.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	var video struct {
		ID          uint64  `json:"id"`
		IsPublished bool    `json:"is_published"`
		Duration    float64 `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(created.Data, &video))
	assert.False(t, video.IsPublished)
	assert.Equal(t, 12.5, video.Duration)
	videoPath := "/api/v1/videos/" + uintStr(video.ID)

	code, _ := doJSON(t, r, http.MethodGet, videoPath, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, code, "未发布的视频对其他人不可见")

	code, _ = doJSON(t, r, http.MethodPatch, videoPath+"/publish", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := doJSON(t, r, http.MethodGet, "/api/v1/feed?limit=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	var feed struct {
		Items []struct {
			ID    uint64 `json:"id"`
			Owner struct {
				Username string `json:"username"`
			} `json:"owner"`
		} `json:"items"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
			PageSize   int   `json:"page_size"`
			NextPage   *int  `json:"next_page"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "alice", feed.Items[0].Owner.Username)
	assert.Equal(t, int64(1), feed.Pagination.TotalItems)
	assert.Equal(t, 5, feed.Pagination.PageSize)
	assert.Nil(t, feed.Pagination.NextPage)

	code, env = doJSON(t, r, http.MethodDelete, videoPath, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, http.StatusForbidden, env.StatusCode)
	assert.NotEmpty(t, env.Error)

	code, env = doJSON(t, r, http.MethodDelete, videoPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"media_released":true}`, string(env.Data))
	assert.Len(t, media.released, 1)
}

func TestErrorMappingOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	token, aliceID := registerAndLogin(t, r, "alice")

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": "alice", "email": "other@example.com", "full_name": "x", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, http.StatusConflict, env.StatusCode)

	code, env = doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": "a b", "email": "x@example.com", "full_name": "x", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "username", env.Field)

	code, _ = doJSON(t, r, http.MethodPost, "/api/v1/subscriptions/"+uintStr(aliceID), token, nil)
	assert.Equal(t, http.StatusBadRequest, code, "不能订阅自己")

	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/feed?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/feed?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/feed?sortType=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/videos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/channels/ghost/stats", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestChannelStatsZeroOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	registerAndLogin(t, r, "alice")

	code, env := doJSON(t, r, http.MethodGet, "/api/v1/channels/alice/stats", "", nil)
	require.Equal(t, http.StatusOK, code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	for _, key := range []string{"total_subscribers", "total_videos", "total_views", "total_likes"} {
		assert.Equal(t, float64(0), stats[key], key)
	}
}

func TestTweetLikeToggleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	aliceToken, aliceID := registerAndLogin(t, r, "alice")
	bobToken, _ := registerAndLogin(t, r, "bob")

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/tweets", aliceToken, gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, code)
	var tweet struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tweet))

	likePath := "/api/v1/tweets/" + uintStr(tweet.ID) + "/like"
	code, env = doJSON(t, r, http.MethodPost, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"outcome":"created"}`, string(env.Data))
	code, env = doJSON(t, r, http.MethodPost, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"outcome":"removed"}`, string(env.Data))

	code, env = doJSON(t, r, http.MethodGet, "/api/v1/users/"+uintStr(aliceID)+"/tweets", "", nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Items []struct {
			LikeCount int64 `json:"like_count"`
			IsLiked   bool  `json:"is_liked"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Zero(t, list.Items[0].LikeCount)
}

func uintStr(id uint64) string {
	return strconv.FormatUint(id, 10)
}
