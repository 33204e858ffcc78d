// Package client holds the local replica a connected client keeps of its
// room: an ordered playlist mirror and the last known play status. The
// replica converges through two mutation sources: optimistic local transforms
// for actions the client itself initiated (the fanout echo never arrives,
// the actor is excluded) and remote fanout messages for everyone else's.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/syncplayer/server/internal/service/room"
)

const (
	MessageUpdatePlaylist = "updatePlaylist"
	MessageUpdateTime     = "updateTime"
	MessageUpdatePause    = "updatePause"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type PlayerStatusPayload struct {
	RoomId    string  `json:"room_id"`
	UserId    string  `json:"user_id"`
	Paused    bool    `json:"paused"`
	Time      float64 `json:"time"`
	Timestamp int64   `json:"timestamp"`
	VideoId   string  `json:"video_id"`
}

// FetchFunc re-reads the full playlist from the source of truth. Playlist
// notifications carry no payload, so remote mutations always re-fetch.
type FetchFunc func(ctx context.Context) ([]room.PlaylistItem, error)

type Replica struct {
	mu         sync.Mutex
	items      []room.PlaylistItem
	status     room.RoomPlayStatus
	hasStatus  bool
	generation uint64
	fetch      FetchFunc
}

func New(fetch FetchFunc) *Replica {
	return &Replica{fetch: fetch}
}

// Generation is a monotonic counter bumped after every mutation. Observers
// compare successive values to learn that the replica changed; the value
// itself carries no meaning.
func (r *Replica) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

func (r *Replica) Items() []room.PlaylistItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]room.PlaylistItem, len(r.items))
	copy(items, r.items)
	return items
}

// CurrentItemId returns the id of the item whose status is playing, or ""
// when nothing plays.
func (r *Replica) CurrentItemId() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentItemIdLocked()
}

func (r *Replica) currentItemIdLocked() string {
	for _, item := range r.items {
		if item.PlayStatus == room.PlayStatusPlaying {
			return item.Id
		}
	}
	return ""
}

func (r *Replica) PlayStatus() (room.RoomPlayStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.hasStatus
}

// SetPlaylist replaces the local mirror with a fresh authoritative copy and
// applies the playing-item-first presentation rule.
func (r *Replica) SetPlaylist(items []room.PlaylistItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make([]room.PlaylistItem, len(items))
	copy(r.items, items)
	if currentId := r.currentItemIdLocked(); currentId != "" {
		r.moveToFrontLocked(currentId)
	}
	r.generation++
}

func (r *Replica) ApplyAdd(item room.PlaylistItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, item)
	r.generation++
}

func (r *Replica) ApplyDelete(playlistItemId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.Id == playlistItemId {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	r.generation++
}

func (r *Replica) ApplyClear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = nil
	r.generation++
}

// ApplySwap exchanges the positions and order indices of two items, the
// local transform matching a reorder of the pair on the server.
func (r *Replica) ApplySwap(fromId, toId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromIndex, toIndex := -1, -1
	for i, item := range r.items {
		switch item.Id {
		case fromId:
			fromIndex = i
		case toId:
			toIndex = i
		}
	}
	if fromIndex < 0 || toIndex < 0 {
		return
	}

	r.items[fromIndex], r.items[toIndex] = r.items[toIndex], r.items[fromIndex]
	r.items[fromIndex].OrderIndex, r.items[toIndex].OrderIndex =
		r.items[toIndex].OrderIndex, r.items[fromIndex].OrderIndex
	r.generation++
}

// ApplySwitch reproduces the switch presentation rule: the previously
// playing item (if any, and if different from the target) disappears from
// the visible list, and the target is marked playing and moved to the front.
func (r *Replica) ApplySwitch(playlistItemId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if currentId := r.currentItemIdLocked(); currentId != "" && currentId != playlistItemId {
		for i, item := range r.items {
			if item.Id == currentId {
				r.items = append(r.items[:i], r.items[i+1:]...)
				break
			}
		}
	}

	r.moveToFrontLocked(playlistItemId)
	r.generation++
}

func (r *Replica) moveToFrontLocked(playlistItemId string) {
	for i, item := range r.items {
		if item.Id == playlistItemId {
			item.PlayStatus = room.PlayStatusPlaying
			r.items = append(r.items[:i], r.items[i+1:]...)
			r.items = append([]room.PlaylistItem{item}, r.items...)
			return
		}
	}
}

func (r *Replica) ApplyPlayStatus(status room.RoomPlayStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status = status
	r.hasStatus = true
	r.generation++
}

// ApplyMessage applies a remote fanout message. Playlist notifications
// discard the mirror and re-fetch; play-status messages carry their payload
// and are applied directly.
func (r *Replica) ApplyMessage(ctx context.Context, msg *Message) error {
	switch msg.Type {
	case MessageUpdatePlaylist:
		items, err := r.fetch(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch playlist: %w", err)
		}
		r.SetPlaylist(items)

		return nil
	case MessageUpdateTime:
		var payload PlayerStatusPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		r.ApplyPlayStatus(room.RoomPlayStatus{
			RoomId:    payload.RoomId,
			Paused:    payload.Paused,
			Time:      payload.Time,
			Timestamp: payload.Timestamp,
			VideoId:   payload.VideoId,
		})

		return nil
	case MessageUpdatePause:
		var payload PlayerStatusPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		r.mu.Lock()
		r.status.RoomId = payload.RoomId
		r.status.Paused = payload.Paused
		r.status.Timestamp = payload.Timestamp
		if payload.VideoId != "" {
			r.status.VideoId = payload.VideoId
		}
		if payload.Time != 0 {
			r.status.Time = payload.Time
		}
		r.hasStatus = true
		r.generation++
		r.mu.Unlock()

		return nil
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
