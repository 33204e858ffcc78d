package redis

import (
	"context"
	"fmt"

	"github.com/syncplayer/server/internal/repository/room"
)

func (r repo) getVideoSourceKey(roomId, videoSourceId string) string {
	return "room:" + roomId + ":video-source:" + videoSourceId
}

func (r repo) getVideoSourceListKey(roomId, playlistItemId string) string {
	return "room:" + roomId + ":playlist-item:" + playlistItemId + ":sources"
}

func (r repo) SetVideoSource(ctx context.Context, params *room.SetVideoSourceParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	source := room.VideoSource{
		PlaylistItemId: params.PlaylistItemId,
		URL:            params.URL,
		CreatedAt:      params.CreatedAt,
		LastActiveAt:   params.LastActiveAt,
	}
	sourceKey := r.getVideoSourceKey(params.RoomId, params.VideoSourceId)
	pipe.HSet(ctx, sourceKey, source)
	pipe.Expire(ctx, sourceKey, r.expireDuration)

	sourceListKey := r.getVideoSourceListKey(params.RoomId, params.PlaylistItemId)
	pipe.RPush(ctx, sourceListKey, params.VideoSourceId)
	pipe.Expire(ctx, sourceListKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set video source: %w", err)
	}

	return nil
}

// GetVideoSourceIds returns the source ids of a playlist item in insertion
// order.
func (r repo) GetVideoSourceIds(ctx context.Context, roomId, playlistItemId string) ([]string, error) {
	sourceListKey := r.getVideoSourceListKey(roomId, playlistItemId)
	sourceIds, err := r.rc.LRange(ctx, sourceListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get video source ids: %w", err)
	}

	r.rc.Expire(ctx, sourceListKey, r.expireDuration)

	return sourceIds, nil
}

func (r repo) GetVideoSource(ctx context.Context, roomId, videoSourceId string) (room.VideoSource, error) {
	var source room.VideoSource
	sourceKey := r.getVideoSourceKey(roomId, videoSourceId)
	if err := r.rc.HGetAll(ctx, sourceKey).Scan(&source); err != nil {
		return room.VideoSource{}, fmt.Errorf("failed to get video source: %w", err)
	}

	if source.URL == "" {
		return room.VideoSource{}, room.ErrVideoSourceNotFound
	}

	r.rc.Expire(ctx, sourceKey, r.expireDuration)

	return source, nil
}

// removeVideoSources cascades the delete of a playlist item to its sources.
func (r repo) removeVideoSources(ctx context.Context, roomId, playlistItemId string) error {
	sourceIds, err := r.GetVideoSourceIds(ctx, roomId, playlistItemId)
	if err != nil {
		return err
	}

	pipe := r.rc.TxPipeline()
	for _, sourceId := range sourceIds {
		pipe.Del(ctx, r.getVideoSourceKey(roomId, sourceId))
	}
	pipe.Del(ctx, r.getVideoSourceListKey(roomId, playlistItemId))

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to remove video sources: %w", err)
	}

	return nil
}
