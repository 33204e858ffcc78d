package redis

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncplayer/server/internal/repository/room"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewRepo(rc, slog.Default(), time.Hour)
}

func TestSetPlaylistItemAssignsOrderIndex(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	orderIndex, err := r.SetPlaylistItem(ctx, &room.SetPlaylistItemParams{
		PlaylistItemId: "item-1",
		RoomId:         "room-1",
		Title:          "First",
		PlayStatus:     "new",
		CreatedAt:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, orderIndex)

	orderIndex, err = r.SetPlaylistItem(ctx, &room.SetPlaylistItemParams{
		PlaylistItemId: "item-2",
		RoomId:         "room-1",
		Title:          "Second",
		PlayStatus:     "new",
		CreatedAt:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, orderIndex)

	entries, err := r.GetPlaylistEntries(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "item-1", entries[0].PlaylistItemId)
	assert.Equal(t, "item-2", entries[1].PlaylistItemId)

	length, err := r.GetPlaylistLength(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, 2, length)
}

func TestUpdatePlaylistItemOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"item-1", "item-2"} {
		_, err := r.SetPlaylistItem(ctx, &room.SetPlaylistItemParams{
			PlaylistItemId: id,
			RoomId:         "room-1",
			Title:          id,
			PlayStatus:     "new",
		})
		require.NoError(t, err)
	}

	require.NoError(t, r.UpdatePlaylistItemOrder(ctx, &room.UpdatePlaylistItemOrderParams{
		PlaylistItemId: "item-1",
		RoomId:         "room-1",
		OrderIndex:     5,
	}))

	entries, err := r.GetPlaylistEntries(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "item-2", entries[0].PlaylistItemId)
	assert.Equal(t, "item-1", entries[1].PlaylistItemId)
	assert.Equal(t, 5, entries[1].OrderIndex)

	err = r.UpdatePlaylistItemOrder(ctx, &room.UpdatePlaylistItemOrderParams{
		PlaylistItemId: "missing",
		RoomId:         "room-1",
		OrderIndex:     3,
	})
	assert.ErrorIs(t, err, room.ErrPlaylistItemNotFound)

	// the reorder script must never insert new members
	length, err := r.GetPlaylistLength(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, 2, length)
}

func TestRemovePlaylistItemCascadesSources(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.SetPlaylistItem(ctx, &room.SetPlaylistItemParams{
		PlaylistItemId: "item-1",
		RoomId:         "room-1",
		Title:          "First",
		PlayStatus:     "new",
	})
	require.NoError(t, err)

	require.NoError(t, r.SetVideoSource(ctx, &room.SetVideoSourceParams{
		VideoSourceId:  "source-1",
		PlaylistItemId: "item-1",
		RoomId:         "room-1",
		URL:            "a.mp4",
	}))

	require.NoError(t, r.RemovePlaylistItem(ctx, &room.RemovePlaylistItemParams{
		PlaylistItemId: "item-1",
		RoomId:         "room-1",
	}))

	_, err = r.GetPlaylistItem(ctx, &room.GetPlaylistItemParams{
		PlaylistItemId: "item-1",
		RoomId:         "room-1",
	})
	assert.ErrorIs(t, err, room.ErrPlaylistItemNotFound)

	sourceIds, err := r.GetVideoSourceIds(ctx, "room-1", "item-1")
	require.NoError(t, err)
	assert.Empty(t, sourceIds)

	err = r.RemovePlaylistItem(ctx, &room.RemovePlaylistItemParams{
		PlaylistItemId: "item-1",
		RoomId:         "room-1",
	})
	assert.ErrorIs(t, err, room.ErrPlaylistItemNotFound)
}

func TestVideoSourcesKeepInsertionOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, sourceId := range []string{"source-1", "source-2", "source-3"} {
		require.NoError(t, r.SetVideoSource(ctx, &room.SetVideoSourceParams{
			VideoSourceId:  sourceId,
			PlaylistItemId: "item-1",
			RoomId:         "room-1",
			URL:            sourceId + ".mp4",
		}))
	}

	sourceIds, err := r.GetVideoSourceIds(ctx, "room-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"source-1", "source-2", "source-3"}, sourceIds)

	source, err := r.GetVideoSource(ctx, "room-1", "source-2")
	require.NoError(t, err)
	assert.Equal(t, "source-2.mp4", source.URL)
}

func TestPlayStatusLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetPlayStatus(ctx, "room-1")
	assert.ErrorIs(t, err, room.ErrPlayStatusNotFound)

	require.NoError(t, r.SetPlayStatus(ctx, &room.SetPlayStatusParams{
		RoomId:    "room-1",
		Paused:    false,
		Time:      10.5,
		Timestamp: 1000,
		VideoId:   "video-1",
	}))

	status, err := r.GetPlayStatus(ctx, "room-1")
	require.NoError(t, err)
	assert.False(t, status.Paused)
	assert.Equal(t, 10.5, status.Time)
	assert.Equal(t, int64(1000), status.Timestamp)
	assert.Equal(t, "video-1", status.VideoId)

	require.NoError(t, r.UpdatePlayStatusPause(ctx, &room.UpdatePlayStatusPauseParams{
		RoomId:    "room-1",
		Paused:    true,
		Timestamp: 2000,
	}))

	status, err = r.GetPlayStatus(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, status.Paused)
	assert.Equal(t, int64(2000), status.Timestamp)
	assert.Equal(t, 10.5, status.Time, "a pause update must not touch the stored time")
	assert.Equal(t, "video-1", status.VideoId)

	require.NoError(t, r.UpdatePlayStatus(ctx, &room.UpdatePlayStatusParams{
		RoomId:    "room-1",
		Paused:    false,
		Time:      20,
		Timestamp: 3000,
		VideoId:   "video-2",
	}))

	status, err = r.GetPlayStatus(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, status.Time)
	assert.Equal(t, "video-2", status.VideoId)
}

func TestUpdatePlayStatusMissing(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	err := r.UpdatePlayStatus(ctx, &room.UpdatePlayStatusParams{
		RoomId:    "room-1",
		Paused:    false,
		Time:      1,
		Timestamp: 1,
		VideoId:   "video-1",
	})
	assert.ErrorIs(t, err, room.ErrPlayStatusNotFound)

	err = r.UpdatePlayStatusPause(ctx, &room.UpdatePlayStatusPauseParams{
		RoomId:    "room-1",
		Paused:    true,
		Timestamp: 1,
	})
	assert.ErrorIs(t, err, room.ErrPlayStatusNotFound)
}

func TestMembers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetRoom(ctx, &room.SetRoomParams{RoomId: "room-1", CreatedAt: 1}))

	exists, err := r.IsRoomExists(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.IsRoomExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, r.SetMember(ctx, &room.SetMemberParams{
		MemberId: "user-1",
		RoomId:   "room-1",
		Username: "user1",
		JoinedAt: 1,
	}))

	member, err := r.GetMember(ctx, &room.GetMemberParams{MemberId: "user-1", RoomId: "room-1"})
	require.NoError(t, err)
	assert.Equal(t, "user1", member.Username)

	_, err = r.GetMember(ctx, &room.GetMemberParams{MemberId: "missing", RoomId: "room-1"})
	assert.ErrorIs(t, err, room.ErrMemberNotFound)

	count, err := r.GetMembersCount(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClearPlaylist(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"item-1", "item-2"} {
		_, err := r.SetPlaylistItem(ctx, &room.SetPlaylistItemParams{
			PlaylistItemId: id,
			RoomId:         "room-1",
			Title:          id,
			PlayStatus:     "new",
		})
		require.NoError(t, err)
		require.NoError(t, r.SetVideoSource(ctx, &room.SetVideoSourceParams{
			VideoSourceId:  id + "-source",
			PlaylistItemId: id,
			RoomId:         "room-1",
			URL:            id + ".mp4",
		}))
	}

	require.NoError(t, r.ClearPlaylist(ctx, "room-1"))

	entries, err := r.GetPlaylistEntries(ctx, "room-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	sourceIds, err := r.GetVideoSourceIds(ctx, "room-1", "item-1")
	require.NoError(t, err)
	assert.Empty(t, sourceIds)
}
