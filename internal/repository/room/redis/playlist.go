package redis

import (
	"context"
	"fmt"

	"github.com/syncplayer/server/internal/repository/room"
)

func (r repo) getPlaylistKey(roomId string) string {
	return "room:" + roomId + ":playlist"
}

func (r repo) getPlaylistItemKey(roomId, playlistItemId string) string {
	return "room:" + roomId + ":playlist-item:" + playlistItemId
}

// SetPlaylistItem stores the item hash and appends it to the room playlist
// with orderIndex = current max + 1 (0 for an empty playlist). The assigned
// orderIndex is returned.
func (r repo) SetPlaylistItem(ctx context.Context, params *room.SetPlaylistItemParams) (int, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	item := room.PlaylistItem{
		Title:      params.Title,
		PlayStatus: params.PlayStatus,
		CreatedAt:  params.CreatedAt,
	}
	itemKey := r.getPlaylistItemKey(params.RoomId, params.PlaylistItemId)
	if err := r.rc.HSet(ctx, itemKey, item).Err(); err != nil {
		return 0, fmt.Errorf("failed to set playlist item: %w", err)
	}
	r.rc.Expire(ctx, itemKey, r.expireDuration)

	playlistKey := r.getPlaylistKey(params.RoomId)
	orderIndex, err := r.addWithMaxScore(ctx, playlistKey, params.PlaylistItemId)
	if err != nil {
		return 0, fmt.Errorf("failed to add playlist item to playlist: %w", err)
	}
	r.rc.Expire(ctx, playlistKey, r.expireDuration)

	return orderIndex, nil
}

func (r repo) GetPlaylistItem(ctx context.Context, params *room.GetPlaylistItemParams) (room.PlaylistItem, error) {
	itemKey := r.getPlaylistItemKey(params.RoomId, params.PlaylistItemId)
	var item room.PlaylistItem
	if err := r.rc.HGetAll(ctx, itemKey).Scan(&item); err != nil {
		return room.PlaylistItem{}, fmt.Errorf("failed to get playlist item: %w", err)
	}

	if item.PlayStatus == "" {
		return room.PlaylistItem{}, room.ErrPlaylistItemNotFound
	}

	r.rc.Expire(ctx, itemKey, r.expireDuration)

	return item, nil
}

// GetPlaylistEntries returns the room playlist ordered by orderIndex
// ascending.
func (r repo) GetPlaylistEntries(ctx context.Context, roomId string) ([]room.PlaylistEntry, error) {
	playlistKey := r.getPlaylistKey(roomId)
	members, err := r.rc.ZRangeWithScores(ctx, playlistKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist entries: %w", err)
	}

	r.rc.Expire(ctx, playlistKey, r.expireDuration)

	entries := make([]room.PlaylistEntry, 0, len(members))
	for _, member := range members {
		entries = append(entries, room.PlaylistEntry{
			PlaylistItemId: member.Member.(string),
			OrderIndex:     int(member.Score),
		})
	}

	return entries, nil
}

func (r repo) GetPlaylistLength(ctx context.Context, roomId string) (int, error) {
	res, err := r.rc.ZCard(ctx, r.getPlaylistKey(roomId)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get playlist length: %w", err)
	}

	return int(res), nil
}

// RemovePlaylistItem removes the item from the playlist ordering and deletes
// its hash together with all owned video sources.
func (r repo) RemovePlaylistItem(ctx context.Context, params *room.RemovePlaylistItemParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	res, err := r.rc.ZRem(ctx, r.getPlaylistKey(params.RoomId), params.PlaylistItemId).Result()
	if err != nil {
		return fmt.Errorf("failed to remove playlist item: %w", err)
	}

	if res == 0 {
		return room.ErrPlaylistItemNotFound
	}

	if err := r.removeVideoSources(ctx, params.RoomId, params.PlaylistItemId); err != nil {
		return err
	}

	if err := r.rc.Del(ctx, r.getPlaylistItemKey(params.RoomId, params.PlaylistItemId)).Err(); err != nil {
		return fmt.Errorf("failed to remove playlist item: %w", err)
	}

	return nil
}

func (r repo) UpdatePlaylistItemOrder(ctx context.Context, params *room.UpdatePlaylistItemOrderParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	ok, err := r.setScore(ctx, r.getPlaylistKey(params.RoomId), params.PlaylistItemId, params.OrderIndex)
	if err != nil {
		return fmt.Errorf("failed to update playlist item order: %w", err)
	}

	if !ok {
		return room.ErrPlaylistItemNotFound
	}

	return nil
}

func (r repo) UpdatePlaylistItemStatus(ctx context.Context, params *room.UpdatePlaylistItemStatusParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	itemKey := r.getPlaylistItemKey(params.RoomId, params.PlaylistItemId)
	cmd := r.rc.Exists(ctx, itemKey)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("failed to update playlist item status: %w", err)
	}

	if cmd.Val() == 0 {
		return room.ErrPlaylistItemNotFound
	}

	if err := r.rc.HSet(ctx, itemKey, "play_status", params.PlayStatus).Err(); err != nil {
		return fmt.Errorf("failed to update playlist item status: %w", err)
	}

	r.rc.Expire(ctx, itemKey, r.expireDuration)

	return nil
}

// ClearPlaylist deletes every playlist item of the room together with its
// video sources.
func (r repo) ClearPlaylist(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "called", "roomId", roomId)
	entries, err := r.GetPlaylistEntries(ctx, roomId)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := r.removeVideoSources(ctx, roomId, entry.PlaylistItemId); err != nil {
			return err
		}

		if err := r.rc.Del(ctx, r.getPlaylistItemKey(roomId, entry.PlaylistItemId)).Err(); err != nil {
			return fmt.Errorf("failed to clear playlist: %w", err)
		}
	}

	if err := r.rc.Del(ctx, r.getPlaylistKey(roomId)).Err(); err != nil {
		return fmt.Errorf("failed to clear playlist: %w", err)
	}

	return nil
}
