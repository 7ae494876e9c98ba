package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/model"
	"VidTube/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	video := testutil.CreateVideo(t, env.db, alice.ID, "v", true)

	_, err := env.comments.AddComment(ctx, bob.ID, video.ID, "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = env.comments.AddComment(ctx, bob.ID, 404, "hi")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	comment, err := env.comments.AddComment(ctx, bob.ID, video.ID, " first ")
	require.NoError(t, err)
	assert.Equal(t, "first", comment.Content)
	assert.Equal(t, bob.ID, comment.OwnerID)

	_, err = env.comments.UpdateComment(ctx, alice.ID, comment.ID, strPtr("edited"))
	assert.ErrorIs(t, err, apperror.ErrForbidden, "视频作者也不能修改别人的评论")

	updated, err := env.comments.UpdateComment(ctx, bob.ID, comment.ID, strPtr("edited"))
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = env.likes.ToggleCommentLike(ctx, alice.ID, comment.ID)
	require.NoError(t, err)
	page, err := env.comments.ListComments(ctx, video.ID, alice.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].LikeCount)
	assert.True(t, page.Items[0].IsLiked)
	assert.Equal(t, "bob", page.Owners[bob.ID].Username)

	assert.ErrorIs(t, env.comments.DeleteComment(ctx, alice.ID, comment.ID), apperror.ErrForbidden)
	require.NoError(t, env.comments.DeleteComment(ctx, bob.ID, comment.ID))

	var likes int64
	require.NoError(t, env.db.Model(&model.Like{}).Count(&likes).Error)
	assert.Zero(t, likes)
	assert.ErrorIs(t, env.comments.DeleteComment(ctx, bob.ID, comment.ID), apperror.ErrNotFound)
}

func TestComments_DraftVideoHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	draft := testutil.CreateVideo(t, env.db, alice.ID, "draft", false)

	_, err := env.comments.AddComment(ctx, bob.ID, draft.ID, "hi")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = env.comments.ListComments(ctx, draft.ID, bob.ID, firstPage(t))
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = env.comments.AddComment(ctx, alice.ID, draft.ID, "note to self")
	require.NoError(t, err)
}

func TestLikes_ToggleIsIdempotentPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	video := testutil.CreateVideo(t, env.db, alice.ID, "v", true)

	out, err := env.likes.ToggleVideoLike(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleCreated, out)

	liked, err := env.likes.ListLikedVideos(ctx, bob.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, liked.Items, 1)
	assert.Equal(t, video.ID, liked.Items[0].ID)
	assert.True(t, liked.Items[0].IsLiked)

	out, err = env.likes.ToggleVideoLike(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleRemoved, out)

	liked, err = env.likes.ListLikedVideos(ctx, bob.ID, firstPage(t))
	require.NoError(t, err)
	assert.Empty(t, liked.Items)
	assert.Equal(t, int64(0), liked.Meta.TotalItems)
}

func TestLikes_MissingTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := testutil.CreateUser(t, env.db, "bob")

	_, err := env.likes.ToggleVideoLike(ctx, bob.ID, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = env.likes.ToggleCommentLike(ctx, bob.ID, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = env.likes.ToggleTweetLike(ctx, bob.ID, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")

	_, err := env.subscriptions.ToggleSubscription(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = env.subscriptions.ToggleSubscription(ctx, alice.ID, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	out, err := env.subscriptions.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleCreated, out)

	subs, err := env.subscriptions.ListSubscribers(ctx, alice.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, subs.Items, 1)
	assert.Equal(t, "bob", subs.Items[0].Username)

	channels, err := env.subscriptions.ListSubscribedChannels(ctx, bob.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, channels.Items, 1)
	assert.Equal(t, "alice", channels.Items[0].Username)

	out, err = env.subscriptions.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleRemoved, out)

	subs, err = env.subscriptions.ListSubscribers(ctx, alice.ID, firstPage(t))
	require.NoError(t, err)
	assert.Empty(t, subs.Items)
}

func TestTweets_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")

	_, err := env.tweets.CreateTweet(ctx, alice.ID, "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	tweet, err := env.tweets.CreateTweet(ctx, alice.ID, "hello")
	require.NoError(t, err)
	_, err = env.likes.ToggleTweetLike(ctx, bob.ID, tweet.ID)
	require.NoError(t, err)

	page, err := env.tweets.ListUserTweets(ctx, alice.ID, bob.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsLiked)
	assert.Equal(t, int64(1), page.Items[0].LikeCount)

	_, err = env.tweets.UpdateTweet(ctx, bob.ID, tweet.ID, strPtr("mine now"))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = env.tweets.UpdateTweet(ctx, alice.ID, tweet.ID, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	updated, err := env.tweets.UpdateTweet(ctx, alice.ID, tweet.ID, strPtr("hello again"))
	require.NoError(t, err)
	assert.Equal(t, "hello again", updated.Content)

	require.NoError(t, env.tweets.DeleteTweet(ctx, alice.ID, tweet.ID))
	var likes int64
	require.NoError(t, env.db.Model(&model.Like{}).Count(&likes).Error)
	assert.Zero(t, likes)

	_, err = env.tweets.ListUserTweets(ctx, 404, 0, firstPage(t))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPlaylists_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	first := testutil.CreateVideo(t, env.db, bob.ID, "first", true)
	second := testutil.CreateVideo(t, env.db, bob.ID, "second", true)
	draft := testutil.CreateVideo(t, env.db, bob.ID, "draft", false)

	playlist, err := env.playlists.CreatePlaylist(ctx, alice.ID, "mix", "my mix")
	require.NoError(t, err)
	_, err = env.playlists.CreatePlaylist(ctx, alice.ID, "mix", "")
	assert.ErrorIs(t, err, apperror.ErrConflict)
	_, err = env.playlists.CreatePlaylist(ctx, bob.ID, "mix", "")
	require.NoError(t, err, "不同用户可以同名")

	assert.ErrorIs(t, env.playlists.AddVideo(ctx, bob.ID, playlist.ID, first.ID), apperror.ErrForbidden)
	assert.ErrorIs(t, env.playlists.AddVideo(ctx, alice.ID, playlist.ID, draft.ID), apperror.ErrNotFound)
	require.NoError(t, env.playlists.AddVideo(ctx, alice.ID, playlist.ID, second.ID))
	require.NoError(t, env.playlists.AddVideo(ctx, alice.ID, playlist.ID, first.ID))
	require.NoError(t, env.playlists.AddVideo(ctx, alice.ID, playlist.ID, second.ID))

	detail, err := env.playlists.GetPlaylist(ctx, playlist.ID, 0)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 2)
	assert.Equal(t, second.ID, detail.Videos[0].ID, "按加入顺序")
	assert.Equal(t, first.ID, detail.Videos[1].ID)
	assert.Contains(t, detail.Owners, alice.ID)
	assert.Contains(t, detail.Owners, bob.ID)

	list, err := env.playlists.ListUserPlaylists(ctx, alice.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(2), list.Items[0].VideoCount)
	assert.Equal(t, second.Thumbnail, list.Items[0].FirstThumbnail)

	updated, err := env.playlists.UpdatePlaylist(ctx, alice.ID, playlist.ID, UpdatePlaylistInput{Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "mix", updated.Name)
	assert.Empty(t, updated.Description)

	require.NoError(t, env.playlists.RemoveVideo(ctx, alice.ID, playlist.ID, second.ID))
	require.NoError(t, env.playlists.RemoveVideo(ctx, alice.ID, playlist.ID, second.ID))
	detail, err = env.playlists.GetPlaylist(ctx, playlist.ID, 0)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 1)

	assert.ErrorIs(t, env.playlists.DeletePlaylist(ctx, bob.ID, playlist.ID), apperror.ErrForbidden)
	require.NoError(t, env.playlists.DeletePlaylist(ctx, alice.ID, playlist.ID))
	_, err = env.playlists.GetPlaylist(ctx, playlist.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var entries int64
	require.NoError(t, env.db.Model(&model.PlaylistVideo{}).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")

	stats, err := env.dashboard.ChannelStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, stats.ID)
	assert.Zero(t, stats.TotalSubscribers)
	assert.Zero(t, stats.TotalVideos)
	assert.Zero(t, stats.TotalViews)
	assert.Zero(t, stats.TotalLikes)

	live := testutil.CreateVideo(t, env.db, alice.ID, "live", true)
	testutil.CreateVideo(t, env.db, alice.ID, "draft", false)
	require.NoError(t, env.db.Model(live).Update("views", 7).Error)
	_, err = env.likes.ToggleVideoLike(ctx, bob.ID, live.ID)
	require.NoError(t, err)
	_, err = env.subscriptions.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	stats, err = env.dashboard.ChannelStats(ctx, " ALICE ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSubscribers)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(7), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalLikes)

	videos, err := env.dashboard.ChannelVideos(ctx, "alice", bob.ID, firstPage(t))
	require.NoError(t, err)
	require.Len(t, videos.Items, 1)
	assert.True(t, videos.Items[0].IsLiked)

	_, err = env.dashboard.ChannelStats(ctx, "nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = env.dashboard.ChannelVideos(ctx, "nobody", 0, firstPage(t))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
