package repository

import (
	"VidTube/internal/model"
	"VidTube/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelStats_ZeroForNewAccount(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")

	stats, err := NewUserRepository(db).ChannelStats(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, int64(0), stats.TotalSubscribers)
	assert.Equal(t, int64(0), stats.TotalVideos)
	assert.Equal(t, int64(0), stats.TotalViews)
	assert.Equal(t, int64(0), stats.TotalLikes)
}

func TestChannelStats_Aggregates(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	v1 := testutil.CreateVideo(t, db, alice.ID, "a", true)
	v2 := testutil.CreateVideo(t, db, alice.ID, "b", false)
	other := testutil.CreateVideo(t, db, bob.ID, "c", true)
	require.NoError(t, db.Model(&model.Video{}).Where("id = ?", v1.ID).Update("views", 7).Error)
	require.NoError(t, db.Model(&model.Video{}).Where("id = ?", v2.ID).Update("views", 5).Error)
	require.NoError(t, db.Model(&model.Video{}).Where("id = ?", other.ID).Update("views", 100).Error)

	require.NoError(t, db.Create(&model.Like{UserID: bob.ID, TargetType: model.LikeTargetVideo, TargetID: v1.ID}).Error)
	require.NoError(t, db.Create(&model.Like{UserID: carol.ID, TargetType: model.LikeTargetVideo, TargetID: v2.ID}).Error)
	require.NoError(t, db.Create(&model.Like{UserID: carol.ID, TargetType: model.LikeTargetVideo, TargetID: other.ID}).Error)
	require.NoError(t, db.Create(&model.Subscription{SubscriberID: bob.ID, ChannelID: alice.ID}).Error)
	require.NoError(t, db.Create(&model.Subscription{SubscriberID: carol.ID, ChannelID: alice.ID}).Error)

	stats, err := NewUserRepository(db).ChannelStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSubscribers)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(12), stats.TotalViews)
	assert.Equal(t, int64(2), stats.TotalLikes)
}

func TestFindChannel(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	require.NoError(t, db.Create(&model.Subscription{SubscriberID: bob.ID, ChannelID: alice.ID}).Error)

	repo := NewUserRepository(db)
	row, err := repo.FindChannel(ctx, "alice", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.SubscriberCount)
	assert.Equal(t, int64(0), row.SubscribedToCount)
	assert.True(t, row.IsSubscribed)

	row, err = repo.FindChannel(ctx, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.SubscriberCount)
	assert.Equal(t, int64(1), row.SubscribedToCount)
	assert.False(t, row.IsSubscribed)

	_, err = repo.FindChannel(ctx, "nobody", 0)
	assert.True(t, IsNotFound(err))
}

func TestFindProfiles(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	owners, err := NewUserRepository(db).FindProfiles(context.Background(), []uint64{alice.ID, bob.ID, 999})
	require.NoError(t, err)
	assert.Len(t, owners, 2)
	assert.Equal(t, "bob", owners[bob.ID].Username)
	assert.Equal(t, alice.Avatar, owners[alice.ID].Avatar)

	empty, err := NewUserRepository(db).FindProfiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "alice")

	err := NewUserRepository(db).Create(context.Background(), &model.User{
		Username: "alice", Email: "other@example.com", FullName: "A", Password: "x",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}
