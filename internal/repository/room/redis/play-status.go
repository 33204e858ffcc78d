package redis

import (
	"context"
	"fmt"

	"github.com/syncplayer/server/internal/repository/room"
)

func (r repo) getPlayStatusKey(roomId string) string {
	return "room:" + roomId + ":play-status"
}

// SetPlayStatus upserts the whole play status record of a room.
func (r repo) SetPlayStatus(ctx context.Context, params *room.SetPlayStatusParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	status := room.PlayStatus{
		Paused:    params.Paused,
		Time:      params.Time,
		Timestamp: params.Timestamp,
		VideoId:   params.VideoId,
	}
	statusKey := r.getPlayStatusKey(params.RoomId)
	if err := r.rc.HSet(ctx, statusKey, status).Err(); err != nil {
		return fmt.Errorf("failed to set play status: %w", err)
	}

	r.rc.Expire(ctx, statusKey, r.expireDuration)

	return nil
}

func (r repo) GetPlayStatus(ctx context.Context, roomId string) (room.PlayStatus, error) {
	statusKey := r.getPlayStatusKey(roomId)
	res, err := r.rc.Exists(ctx, statusKey).Result()
	if err != nil {
		return room.PlayStatus{}, fmt.Errorf("failed to get play status: %w", err)
	}

	if res == 0 {
		return room.PlayStatus{}, room.ErrPlayStatusNotFound
	}

	var status room.PlayStatus
	if err := r.rc.HGetAll(ctx, statusKey).Scan(&status); err != nil {
		return room.PlayStatus{}, fmt.Errorf("failed to get play status: %w", err)
	}

	r.rc.Expire(ctx, statusKey, r.expireDuration)

	return status, nil
}

// UpdatePlayStatus overwrites all four fields of an existing record.
func (r repo) UpdatePlayStatus(ctx context.Context, params *room.UpdatePlayStatusParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	statusKey := r.getPlayStatusKey(params.RoomId)
	cmd := r.rc.Exists(ctx, statusKey)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("failed to update play status: %w", err)
	}

	if cmd.Val() == 0 {
		return room.ErrPlayStatusNotFound
	}

	status := room.PlayStatus{
		Paused:    params.Paused,
		Time:      params.Time,
		Timestamp: params.Timestamp,
		VideoId:   params.VideoId,
	}
	if err := r.rc.HSet(ctx, statusKey, status).Err(); err != nil {
		return fmt.Errorf("failed to update play status: %w", err)
	}

	r.rc.Expire(ctx, statusKey, r.expireDuration)

	return nil
}

// UpdatePlayStatusPause flips paused and refreshes timestamp without touching
// time or video_id.
func (r repo) UpdatePlayStatusPause(ctx context.Context, params *room.UpdatePlayStatusPauseParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	statusKey := r.getPlayStatusKey(params.RoomId)
	cmd := r.rc.Exists(ctx, statusKey)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("failed to update play status pause: %w", err)
	}

	if cmd.Val() == 0 {
		return room.ErrPlayStatusNotFound
	}

	if err := r.rc.HSet(ctx, statusKey,
		"paused", params.Paused,
		"timestamp", params.Timestamp,
	).Err(); err != nil {
		return fmt.Errorf("failed to update play status pause: %w", err)
	}

	r.rc.Expire(ctx, statusKey, r.expireDuration)

	return nil
}
