package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncplayer/server/internal/service/room"
)

func testItems() []room.PlaylistItem {
	return []room.PlaylistItem{
		{Id: "a", Title: "A", OrderIndex: 0, PlayStatus: room.PlayStatusNew},
		{Id: "b", Title: "B", OrderIndex: 1, PlayStatus: room.PlayStatusPlaying},
		{Id: "c", Title: "C", OrderIndex: 2, PlayStatus: room.PlayStatusNew},
	}
}

func itemIds(items []room.PlaylistItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Id)
	}
	return ids
}

func TestSetPlaylistMovesPlayingFirst(t *testing.T) {
	r := New(nil)

	r.SetPlaylist(testItems())

	assert.Equal(t, []string{"b", "a", "c"}, itemIds(r.Items()))
	assert.Equal(t, "b", r.CurrentItemId())
}

func TestApplySwitch(t *testing.T) {
	r := New(nil)
	r.SetPlaylist(testItems())

	r.ApplySwitch("c")

	// the previously playing item leaves the visible list, the target moves
	// to the front as playing
	assert.Equal(t, []string{"c", "a"}, itemIds(r.Items()))
	assert.Equal(t, "c", r.CurrentItemId())
}

func TestApplySwitchSameItem(t *testing.T) {
	r := New(nil)
	r.SetPlaylist(testItems())

	r.ApplySwitch("b")

	assert.Equal(t, []string{"b", "a", "c"}, itemIds(r.Items()), "re-switching the playing item must not drop it")
	assert.Equal(t, "b", r.CurrentItemId())
}

func TestApplySwap(t *testing.T) {
	r := New(nil)
	r.SetPlaylist([]room.PlaylistItem{
		{Id: "a", OrderIndex: 0},
		{Id: "b", OrderIndex: 1},
	})

	r.ApplySwap("a", "b")

	items := r.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Id)
	assert.Equal(t, 0, items[0].OrderIndex, "order indices travel with the positions")
	assert.Equal(t, "a", items[1].Id)
	assert.Equal(t, 1, items[1].OrderIndex)
}

func TestGeneration(t *testing.T) {
	r := New(nil)

	gen := r.Generation()
	r.SetPlaylist(testItems())
	require.Greater(t, r.Generation(), gen)

	gen = r.Generation()
	r.ApplyAdd(room.PlaylistItem{Id: "d"})
	require.Greater(t, r.Generation(), gen)

	gen = r.Generation()
	r.ApplyDelete("d")
	require.Greater(t, r.Generation(), gen)

	gen = r.Generation()
	r.ApplyPlayStatus(room.RoomPlayStatus{RoomId: "room-1"})
	require.Greater(t, r.Generation(), gen)

	gen = r.Generation()
	r.ApplyClear()
	require.Greater(t, r.Generation(), gen)
	assert.Empty(t, r.Items())
}

func TestApplyMessageUpdatePlaylist(t *testing.T) {
	fetched := false
	r := New(func(ctx context.Context) ([]room.PlaylistItem, error) {
		fetched = true
		return testItems(), nil
	})

	err := r.ApplyMessage(context.Background(), &Message{Type: MessageUpdatePlaylist})
	require.NoError(t, err)
	assert.True(t, fetched, "playlist notifications carry no payload and must re-fetch")
	assert.Equal(t, []string{"b", "a", "c"}, itemIds(r.Items()))
}

func TestApplyMessageUpdatePlaylistFetchError(t *testing.T) {
	fetchErr := errors.New("fetch failed")
	r := New(func(ctx context.Context) ([]room.PlaylistItem, error) {
		return nil, fetchErr
	})
	r.SetPlaylist(testItems())
	gen := r.Generation()

	err := r.ApplyMessage(context.Background(), &Message{Type: MessageUpdatePlaylist})
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, gen, r.Generation(), "a failed re-fetch must leave the mirror untouched")
}

func TestApplyMessageUpdateTime(t *testing.T) {
	r := New(nil)

	payload, err := json.Marshal(PlayerStatusPayload{
		RoomId:    "room-1",
		Paused:    false,
		Time:      42.5,
		Timestamp: 1700000000000,
		VideoId:   "video-1",
	})
	require.NoError(t, err)

	err = r.ApplyMessage(context.Background(), &Message{Type: MessageUpdateTime, Payload: payload})
	require.NoError(t, err)

	status, ok := r.PlayStatus()
	require.True(t, ok)
	assert.Equal(t, 42.5, status.Time)
	assert.Equal(t, "video-1", status.VideoId)
	assert.False(t, status.Paused)
}

func TestApplyMessageUpdatePause(t *testing.T) {
	r := New(nil)
	r.ApplyPlayStatus(room.RoomPlayStatus{
		RoomId:    "room-1",
		Paused:    false,
		Time:      42.5,
		Timestamp: 1700000000000,
		VideoId:   "video-1",
	})

	payload, err := json.Marshal(PlayerStatusPayload{
		RoomId:    "room-1",
		Paused:    true,
		Timestamp: 1700000005000,
	})
	require.NoError(t, err)

	err = r.ApplyMessage(context.Background(), &Message{Type: MessageUpdatePause, Payload: payload})
	require.NoError(t, err)

	status, ok := r.PlayStatus()
	require.True(t, ok)
	assert.True(t, status.Paused)
	assert.Equal(t, int64(1700000005000), status.Timestamp)
	assert.Equal(t, 42.5, status.Time, "a pause with a zero time must keep the known position")
	assert.Equal(t, "video-1", status.VideoId)
}

func TestApplyMessageUnknownType(t *testing.T) {
	r := New(nil)

	err := r.ApplyMessage(context.Background(), &Message{Type: "bogus"})
	assert.Error(t, err)
}
