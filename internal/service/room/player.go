package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/syncplayer/server/internal/repository/connection"
	"github.com/syncplayer/server/internal/repository/room"
)

type UpdatePlayerTimeParams struct {
	SenderId  string
	RoomId    string
	Paused    bool
	Time      float64
	Timestamp int64
	VideoId   string
}

type UpdatePlayerTimeResponse struct {
	Status  RoomPlayStatus
	Clients []*connection.Client
}

// UpdatePlayerTime overwrites the whole play status of a room, creating the
// record on first use. Used for seeks and switch-triggered resets.
func (s *service) UpdatePlayerTime(ctx context.Context, params *UpdatePlayerTimeParams) (UpdatePlayerTimeResponse, error) {
	_, err := s.roomRepo.GetPlayStatus(ctx, params.RoomId)
	switch {
	case errors.Is(err, room.ErrPlayStatusNotFound):
		if err := s.roomRepo.SetPlayStatus(ctx, &room.SetPlayStatusParams{
			RoomId:    params.RoomId,
			Paused:    params.Paused,
			Time:      params.Time,
			Timestamp: params.Timestamp,
			VideoId:   params.VideoId,
		}); err != nil {
			return UpdatePlayerTimeResponse{}, fmt.Errorf("failed to set play status: %w", err)
		}
	case err != nil:
		return UpdatePlayerTimeResponse{}, fmt.Errorf("failed to get play status: %w", err)
	default:
		if err := s.roomRepo.UpdatePlayStatus(ctx, &room.UpdatePlayStatusParams{
			RoomId:    params.RoomId,
			Paused:    params.Paused,
			Time:      params.Time,
			Timestamp: params.Timestamp,
			VideoId:   params.VideoId,
		}); err != nil {
			return UpdatePlayerTimeResponse{}, fmt.Errorf("failed to update play status: %w", err)
		}
	}

	return UpdatePlayerTimeResponse{
		Status: RoomPlayStatus{
			RoomId:    params.RoomId,
			Paused:    params.Paused,
			Time:      params.Time,
			Timestamp: params.Timestamp,
			VideoId:   params.VideoId,
		},
		Clients: s.connRepo.GetRoomClients(params.RoomId, params.SenderId),
	}, nil
}

type UpdatePlayerPauseParams struct {
	SenderId  string
	RoomId    string
	Paused    bool
	Timestamp int64
}

type UpdatePlayerPauseResponse struct {
	Status  RoomPlayStatus
	Clients []*connection.Client
}

// UpdatePlayerPause flips paused and refreshes timestamp. The stored time is
// deliberately not recomputed here: a caller pausing at the drift-corrected
// position must read it first and submit it through UpdatePlayerTime.
func (s *service) UpdatePlayerPause(ctx context.Context, params *UpdatePlayerPauseParams) (UpdatePlayerPauseResponse, error) {
	status, err := s.roomRepo.GetPlayStatus(ctx, params.RoomId)
	switch {
	case errors.Is(err, room.ErrPlayStatusNotFound):
		if err := s.roomRepo.SetPlayStatus(ctx, &room.SetPlayStatusParams{
			RoomId:    params.RoomId,
			Paused:    params.Paused,
			Time:      0,
			Timestamp: params.Timestamp,
			VideoId:   "",
		}); err != nil {
			return UpdatePlayerPauseResponse{}, fmt.Errorf("failed to set play status: %w", err)
		}
		status = room.PlayStatus{Paused: params.Paused, Timestamp: params.Timestamp}
	case err != nil:
		return UpdatePlayerPauseResponse{}, fmt.Errorf("failed to get play status: %w", err)
	default:
		if err := s.roomRepo.UpdatePlayStatusPause(ctx, &room.UpdatePlayStatusPauseParams{
			RoomId:    params.RoomId,
			Paused:    params.Paused,
			Timestamp: params.Timestamp,
		}); err != nil {
			return UpdatePlayerPauseResponse{}, fmt.Errorf("failed to update play status pause: %w", err)
		}
		status.Paused = params.Paused
		status.Timestamp = params.Timestamp
	}

	return UpdatePlayerPauseResponse{
		Status: RoomPlayStatus{
			RoomId:    params.RoomId,
			Paused:    status.Paused,
			Time:      status.Time,
			Timestamp: status.Timestamp,
			VideoId:   status.VideoId,
		},
		Clients: s.connRepo.GetRoomClients(params.RoomId, params.SenderId),
	}, nil
}

// GetPlayerStatus returns the drift-corrected play status. While unpaused,
// the elapsed wall-clock delta since the stored timestamp is folded into the
// reported time and the reported timestamp is advanced to now. The stored
// record stays untouched: every read recomputes from the same authoritative
// write, so repeated reads never double-count elapsed time.
// ErrPlayStatusNotFound is a normal condition for a room that never started
// playback.
func (s *service) GetPlayerStatus(ctx context.Context, roomId string) (RoomPlayStatus, error) {
	status, err := s.roomRepo.GetPlayStatus(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrPlayStatusNotFound) {
			return RoomPlayStatus{}, ErrPlayStatusNotFound
		}

		return RoomPlayStatus{}, fmt.Errorf("failed to get play status: %w", err)
	}

	if !status.Paused {
		now := s.now().UnixMilli()
		status.Time += float64(now-status.Timestamp) / 1000
		status.Timestamp = now
	}

	return RoomPlayStatus{
		RoomId:    roomId,
		Paused:    status.Paused,
		Time:      status.Time,
		Timestamp: status.Timestamp,
		VideoId:   status.VideoId,
	}, nil
}
