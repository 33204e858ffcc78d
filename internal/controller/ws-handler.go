package controller

import (
	"context"
	"net/http"

	"github.com/syncplayer/server/internal/repository/connection"
	"github.com/syncplayer/server/internal/service/room"
)

// attachWS upgrades the request and registers the connection as a live room
// member for fanout. The read loop only serves to detect disconnects: all
// mutations go through the REST surface, the socket is a push channel.
func (c controller) attachWS(w http.ResponseWriter, r *http.Request) {
	roomId := c.getRoomIdFromCtx(r.Context())
	userId := c.getUserIdFromCtx(r.Context())

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	client := connection.NewClient(conn)
	if err := c.roomService.ConnectMember(r.Context(), &room.ConnectMemberParams{
		Client: client,
		RoomId: roomId,
		UserId: userId,
	}); err != nil {
		c.logger.InfoContext(r.Context(), "failed to connect member", "error", err)
		conn.Close()
		return
	}

	go client.WritePump()
	// The request context dies with this handler; the read loop outlives it.
	go c.readLoop(context.WithoutCancel(r.Context()), client)
}

func (c controller) readLoop(ctx context.Context, client *connection.Client) {
	defer client.Close()
	for {
		if _, _, err := client.ReadMessage(); err != nil {
			if err := c.roomService.DisconnectMember(ctx, client); err != nil {
				c.logger.InfoContext(ctx, "failed to disconnect member", "error", err)
			}
			return
		}
	}
}
