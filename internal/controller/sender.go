package controller

import (
	"context"
	"encoding/json"

	"github.com/syncplayer/server/internal/repository/connection"
	"github.com/syncplayer/server/internal/service/room"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type playerStatusPayload struct {
	RoomId    string  `json:"room_id"`
	UserId    string  `json:"user_id"`
	Paused    bool    `json:"paused"`
	Time      float64 `json:"time"`
	Timestamp int64   `json:"timestamp"`
	VideoId   string  `json:"video_id"`
}

// broadcast enqueues the message onto every client's writer pump, best-effort:
// a full queue or closed client drops the message with a log line, it never
// blocks the handler and is never surfaced to the acting client.
func (c controller) broadcast(ctx context.Context, clients []*connection.Client, out *Output) {
	message, err := json.Marshal(out)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to marshal message", "type", out.Type, "error", err)
		return
	}

	for _, client := range clients {
		if !client.Enqueue(message) {
			c.logger.InfoContext(ctx, "dropped message to slow or closed connection", "type", out.Type)
		}
	}
}

// broadcastUpdatePlaylist carries no payload: playlist mutations are
// infrequent and multi-field, recipients re-fetch the playlist instead.
func (c controller) broadcastUpdatePlaylist(ctx context.Context, clients []*connection.Client) {
	c.broadcast(ctx, clients, &Output{Type: "updatePlaylist"})
}

// broadcastPlayerStatus carries the full status tuple: position updates are
// frequent and latency-sensitive, recipients apply them without a round trip.
func (c controller) broadcastPlayerStatus(ctx context.Context, clients []*connection.Client, msgType, userId string, status *room.RoomPlayStatus) {
	c.broadcast(ctx, clients, &Output{
		Type: msgType,
		Payload: playerStatusPayload{
			RoomId:    status.RoomId,
			UserId:    userId,
			Paused:    status.Paused,
			Time:      status.Time,
			Timestamp: status.Timestamp,
			VideoId:   status.VideoId,
		},
	})
}
