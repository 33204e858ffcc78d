package controller

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/syncplayer/server/internal/repository/connection"
	"github.com/syncplayer/server/internal/service/room"
	"github.com/syncplayer/server/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context) (room.CreateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	Authenticate(ctx context.Context, token string) (room.Session, error)
	ConnectMember(context.Context, *room.ConnectMemberParams) error
	DisconnectMember(ctx context.Context, client *connection.Client) error

	AddPlaylistItem(context.Context, *room.AddPlaylistItemParams) (room.AddPlaylistItemResponse, error)
	RemovePlaylistItem(context.Context, *room.RemovePlaylistItemParams) (room.RemovePlaylistItemResponse, error)
	ReorderPlaylist(context.Context, *room.ReorderPlaylistParams) (room.ReorderPlaylistResponse, error)
	ClearPlaylist(context.Context, *room.ClearPlaylistParams) (room.ClearPlaylistResponse, error)
	SwitchVideo(context.Context, *room.SwitchVideoParams) (room.SwitchVideoResponse, error)
	GetPlaylist(context.Context, *room.GetPlaylistParams) (room.GetPlaylistResponse, error)

	UpdatePlayerTime(context.Context, *room.UpdatePlayerTimeParams) (room.UpdatePlayerTimeResponse, error)
	UpdatePlayerPause(context.Context, *room.UpdatePlayerPauseParams) (room.UpdatePlayerPauseResponse, error)
	GetPlayerStatus(ctx context.Context, roomId string) (room.RoomPlayStatus, error)
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	return &controller{
		roomService: roomService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}

func (c controller) generateTimeBasedId() string {
	return fmt.Sprintf("%d", time.Now().UnixMicro())
}
