package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/syncplayer/server/internal/repository/connection"
	"github.com/syncplayer/server/internal/repository/room"
)

type AddPlaylistItemParams struct {
	SenderId string
	RoomId   string
	Title    string
	// URLs is a comma-separated list of alternate mirrors of the same
	// content; one video source is created per entry, in order.
	URLs string
}

type AddPlaylistItemResponse struct {
	AddedItem PlaylistItem
	Clients   []*connection.Client
}

func (s *service) AddPlaylistItem(ctx context.Context, params *AddPlaylistItemParams) (AddPlaylistItemResponse, error) {
	urls := make([]string, 0)
	for _, url := range strings.Split(params.URLs, ",") {
		if url = strings.TrimSpace(url); url != "" {
			urls = append(urls, url)
		}
	}
	if params.Title == "" || len(urls) == 0 {
		return AddPlaylistItemResponse{}, ErrEmptyVideoSources
	}

	playlistLength, err := s.roomRepo.GetPlaylistLength(ctx, params.RoomId)
	if err != nil {
		return AddPlaylistItemResponse{}, fmt.Errorf("failed to get playlist length: %w", err)
	}
	if playlistLength >= s.playlistLimit {
		return AddPlaylistItemResponse{}, ErrPlaylistLimitReached
	}

	now := s.now().UnixMilli()
	playlistItemId := uuid.NewString()
	orderIndex, err := s.roomRepo.SetPlaylistItem(ctx, &room.SetPlaylistItemParams{
		PlaylistItemId: playlistItemId,
		RoomId:         params.RoomId,
		Title:          params.Title,
		PlayStatus:     PlayStatusNew,
		CreatedAt:      now,
	})
	if err != nil {
		return AddPlaylistItemResponse{}, fmt.Errorf("failed to set playlist item: %w", err)
	}

	sources := make([]VideoSource, 0, len(urls))
	for _, url := range urls {
		videoSourceId := uuid.NewString()
		if err := s.roomRepo.SetVideoSource(ctx, &room.SetVideoSourceParams{
			VideoSourceId:  videoSourceId,
			PlaylistItemId: playlistItemId,
			RoomId:         params.RoomId,
			URL:            url,
			CreatedAt:      now,
			LastActiveAt:   now,
		}); err != nil {
			return AddPlaylistItemResponse{}, fmt.Errorf("failed to set video source: %w", err)
		}

		sources = append(sources, VideoSource{
			Id:             videoSourceId,
			PlaylistItemId: playlistItemId,
			URL:            url,
			CreatedAt:      now,
			LastActiveAt:   now,
		})
	}

	return AddPlaylistItemResponse{
		AddedItem: PlaylistItem{
			Id:         playlistItemId,
			RoomId:     params.RoomId,
			Title:      params.Title,
			OrderIndex: orderIndex,
			PlayStatus: PlayStatusNew,
			CreatedAt:  now,
			Sources:    sources,
		},
		Clients: s.connRepo.GetRoomClients(params.RoomId, params.SenderId),
	}, nil
}

type RemovePlaylistItemParams struct {
	SenderId       string
	RoomId         string
	PlaylistItemId string
}

type RemovePlaylistItemResponse struct {
	// Removed is false when the item was already absent; the call still
	// succeeds (delete is idempotent by id) but nothing changed, so no
	// notification is owed to other members.
	Removed bool
	Clients []*connection.Client
}

func (s *service) RemovePlaylistItem(ctx context.Context, params *RemovePlaylistItemParams) (RemovePlaylistItemResponse, error) {
	if err := s.roomRepo.RemovePlaylistItem(ctx, &room.RemovePlaylistItemParams{
		PlaylistItemId: params.PlaylistItemId,
		RoomId:         params.RoomId,
	}); err != nil {
		if errors.Is(err, room.ErrPlaylistItemNotFound) {
			return RemovePlaylistItemResponse{Removed: false}, nil
		}

		return RemovePlaylistItemResponse{}, fmt.Errorf("failed to remove playlist item: %w", err)
	}

	return RemovePlaylistItemResponse{
		Removed: true,
		Clients: s.connRepo.GetRoomClients(params.RoomId, params.SenderId),
	}, nil
}

type ReorderPair struct {
	PlaylistItemId string
	OrderIndex     int
}

type ReorderPlaylistParams struct {
	SenderId string
	RoomId   string
	Pairs    []ReorderPair
}

type ReorderPlaylistResponse struct {
	// FailedItemIds lists the pairs that could not be applied. Pairs are
	// applied independently: earlier successes are not rolled back.
	FailedItemIds []string
	Clients       []*connection.Client
}

func (s *service) ReorderPlaylist(ctx context.Context, params *ReorderPlaylistParams) (ReorderPlaylistResponse, error) {
	failed := make([]string, 0)
	for _, pair := range params.Pairs {
		if err := s.roomRepo.UpdatePlaylistItemOrder(ctx, &room.UpdatePlaylistItemOrderParams{
			PlaylistItemId: pair.PlaylistItemId,
			RoomId:         params.RoomId,
			OrderIndex:     pair.OrderIndex,
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to update playlist item order",
				"roomId", params.RoomId,
				"playlistItemId", pair.PlaylistItemId,
				"error", err,
			)
			failed = append(failed, pair.PlaylistItemId)
		}
	}

	return ReorderPlaylistResponse{
		FailedItemIds: failed,
		Clients:       s.connRepo.GetRoomClients(params.RoomId, params.SenderId),
	}, nil
}

type ClearPlaylistParams struct {
	SenderId string
	RoomId   string
}

type ClearPlaylistResponse struct {
	Clients []*connection.Client
}

func (s *service) ClearPlaylist(ctx context.Context, params *ClearPlaylistParams) (ClearPlaylistResponse, error) {
	if err := s.roomRepo.ClearPlaylist(ctx, params.RoomId); err != nil {
		return ClearPlaylistResponse{}, fmt.Errorf("failed to clear playlist: %w", err)
	}

	return ClearPlaylistResponse{
		Clients: s.connRepo.GetRoomClients(params.RoomId, params.SenderId),
	}, nil
}

type SwitchVideoParams struct {
	SenderId       string
	RoomId         string
	PlaylistItemId string
}

type SwitchVideoResponse struct {
	// BroadcastNeeded is false when the target item was already playing:
	// other members see no change, but the play status is still reset.
	BroadcastNeeded bool
	Clients         []*connection.Client
}

// SwitchVideo marks every currently playing item of the room as finished,
// marks the target as playing and resets the room play status to the start
// of the target video. The whole sequence runs under the room lock so at
// most one item is ever playing.
func (s *service) SwitchVideo(ctx context.Context, params *SwitchVideoParams) (SwitchVideoResponse, error) {
	lock := s.lockRoom(params.RoomId)
	defer lock.Unlock()

	if _, err := s.roomRepo.GetPlaylistItem(ctx, &room.GetPlaylistItemParams{
		PlaylistItemId: params.PlaylistItemId,
		RoomId:         params.RoomId,
	}); err != nil {
		if errors.Is(err, room.ErrPlaylistItemNotFound) {
			return SwitchVideoResponse{}, ErrPlaylistItemNotFound
		}

		return SwitchVideoResponse{}, fmt.Errorf("failed to get playlist item: %w", err)
	}

	entries, err := s.roomRepo.GetPlaylistEntries(ctx, params.RoomId)
	if err != nil {
		return SwitchVideoResponse{}, fmt.Errorf("failed to get playlist entries: %w", err)
	}

	broadcastNeeded := true
	for _, entry := range entries {
		item, err := s.roomRepo.GetPlaylistItem(ctx, &room.GetPlaylistItemParams{
			PlaylistItemId: entry.PlaylistItemId,
			RoomId:         params.RoomId,
		})
		if err != nil {
			return SwitchVideoResponse{}, fmt.Errorf("failed to get playlist item: %w", err)
		}
		if item.PlayStatus != PlayStatusPlaying {
			continue
		}

		// Switching to the item that is already playing is invisible to
		// other members.
		if entry.PlaylistItemId == params.PlaylistItemId {
			broadcastNeeded = false
		}

		if err := s.roomRepo.UpdatePlaylistItemStatus(ctx, &room.UpdatePlaylistItemStatusParams{
			PlaylistItemId: entry.PlaylistItemId,
			RoomId:         params.RoomId,
			PlayStatus:     PlayStatusFinished,
		}); err != nil {
			return SwitchVideoResponse{}, fmt.Errorf("failed to finish playing item: %w", err)
		}
	}

	if err := s.roomRepo.UpdatePlaylistItemStatus(ctx, &room.UpdatePlaylistItemStatusParams{
		PlaylistItemId: params.PlaylistItemId,
		RoomId:         params.RoomId,
		PlayStatus:     PlayStatusPlaying,
	}); err != nil {
		return SwitchVideoResponse{}, fmt.Errorf("failed to mark target item playing: %w", err)
	}

	// The status upsert happens even when no broadcast is owed, keeping the
	// acting client and the server aligned.
	if err := s.roomRepo.SetPlayStatus(ctx, &room.SetPlayStatusParams{
		RoomId:    params.RoomId,
		Paused:    false,
		Time:      0,
		Timestamp: s.now().UnixMilli(),
		VideoId:   params.PlaylistItemId,
	}); err != nil {
		return SwitchVideoResponse{}, fmt.Errorf("failed to set play status: %w", err)
	}

	return SwitchVideoResponse{
		BroadcastNeeded: broadcastNeeded,
		Clients:         s.connRepo.GetRoomClients(params.RoomId, params.SenderId),
	}, nil
}

type GetPlaylistParams struct {
	RoomId         string
	PlaylistItemId string
	PlayStatus     string
}

type GetPlaylistResponse struct {
	Items []PlaylistItem
}

// GetPlaylist returns playlist items ordered by orderIndex ascending. With
// no filter, only playing and new items are returned: finished history is
// not surfaced.
func (s *service) GetPlaylist(ctx context.Context, params *GetPlaylistParams) (GetPlaylistResponse, error) {
	entries, err := s.roomRepo.GetPlaylistEntries(ctx, params.RoomId)
	if err != nil {
		return GetPlaylistResponse{}, fmt.Errorf("failed to get playlist entries: %w", err)
	}

	items := make([]PlaylistItem, 0, len(entries))
	for _, entry := range entries {
		if params.PlaylistItemId != "" && entry.PlaylistItemId != params.PlaylistItemId {
			continue
		}

		item, err := s.roomRepo.GetPlaylistItem(ctx, &room.GetPlaylistItemParams{
			PlaylistItemId: entry.PlaylistItemId,
			RoomId:         params.RoomId,
		})
		if err != nil {
			return GetPlaylistResponse{}, fmt.Errorf("failed to get playlist item: %w", err)
		}

		if params.PlayStatus != "" {
			if item.PlayStatus != params.PlayStatus {
				continue
			}
		} else if params.PlaylistItemId == "" {
			if item.PlayStatus != PlayStatusPlaying && item.PlayStatus != PlayStatusNew {
				continue
			}
		}

		sources, err := s.getVideoSources(ctx, params.RoomId, entry.PlaylistItemId)
		if err != nil {
			return GetPlaylistResponse{}, err
		}

		items = append(items, PlaylistItem{
			Id:         entry.PlaylistItemId,
			RoomId:     params.RoomId,
			Title:      item.Title,
			OrderIndex: entry.OrderIndex,
			PlayStatus: item.PlayStatus,
			CreatedAt:  item.CreatedAt,
			Sources:    sources,
		})
	}

	return GetPlaylistResponse{Items: items}, nil
}

func (s *service) getVideoSources(ctx context.Context, roomId, playlistItemId string) ([]VideoSource, error) {
	sourceIds, err := s.roomRepo.GetVideoSourceIds(ctx, roomId, playlistItemId)
	if err != nil {
		return nil, fmt.Errorf("failed to get video source ids: %w", err)
	}

	sources := make([]VideoSource, 0, len(sourceIds))
	for _, sourceId := range sourceIds {
		source, err := s.roomRepo.GetVideoSource(ctx, roomId, sourceId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video source: %w", err)
		}

		sources = append(sources, VideoSource{
			Id:             sourceId,
			PlaylistItemId: playlistItemId,
			URL:            source.URL,
			CreatedAt:      source.CreatedAt,
			LastActiveAt:   source.LastActiveAt,
		})
	}

	return sources, nil
}
