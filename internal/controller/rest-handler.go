package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/syncplayer/server/internal/service/room"
	"github.com/syncplayer/server/pkg/rest"
)

func (c controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, room.ErrMemberNotFound),
		errors.Is(err, room.ErrPlaylistItemNotFound),
		errors.Is(err, room.ErrPlayStatusNotFound):
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrEmptyVideoSources):
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrMembersLimitReached),
		errors.Is(err, room.ErrPlaylistLimitReached):
		rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"error": err.Error()})
	default:
		c.logger.ErrorContext(r.Context(), "storage error", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
	}
}

type createRoomResponse struct {
	RoomId string `json:"room_id"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	createRoomResp, err := c.roomService.CreateRoom(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": createRoomResponse{
		RoomId: createRoomResp.RoomId,
	}})
}

type joinRoomInput struct {
	Username string `json:"username" validate:"required,max=32"`
}

type joinRoomResponse struct {
	UserId string `json:"user_id"`
	Token  string `json:"token"`
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	var input joinRoomInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	joinRoomResp, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomId:   roomId,
		Username: input.Username,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": joinRoomResponse{
		UserId: joinRoomResp.UserId,
		Token:  joinRoomResp.Token,
	}})
}

type addPlaylistItemInput struct {
	Title string `json:"title" validate:"required,max=256"`
	URLs  string `json:"urls" validate:"required"`
}

type addPlaylistItemResponse struct {
	PlaylistItemId string `json:"playlist_item_id"`
}

func (c controller) addPlaylistItem(w http.ResponseWriter, r *http.Request) {
	var input addPlaylistItemInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	addResp, err := c.roomService.AddPlaylistItem(r.Context(), &room.AddPlaylistItemParams{
		SenderId: c.getUserIdFromCtx(r.Context()),
		RoomId:   c.getRoomIdFromCtx(r.Context()),
		Title:    input.Title,
		URLs:     input.URLs,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.broadcastUpdatePlaylist(r.Context(), addResp.Clients)

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": addPlaylistItemResponse{
		PlaylistItemId: addResp.AddedItem.Id,
	}})
}

func (c controller) queryPlaylist(w http.ResponseWriter, r *http.Request) {
	playStatus := r.URL.Query().Get("play_status")
	switch playStatus {
	case "", room.PlayStatusNew, room.PlayStatusPlaying, room.PlayStatusFinished:
	default:
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "invalid play_status filter"})
		return
	}

	getResp, err := c.roomService.GetPlaylist(r.Context(), &room.GetPlaylistParams{
		RoomId:         c.getRoomIdFromCtx(r.Context()),
		PlaylistItemId: r.URL.Query().Get("playlist_item_id"),
		PlayStatus:     playStatus,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": getResp.Items})
}

type deletePlaylistItemInput struct {
	PlaylistItemId string `json:"playlist_item_id" validate:"required"`
}

func (c controller) deletePlaylistItem(w http.ResponseWriter, r *http.Request) {
	var input deletePlaylistItemInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	removeResp, err := c.roomService.RemovePlaylistItem(r.Context(), &room.RemovePlaylistItemParams{
		SenderId:       c.getUserIdFromCtx(r.Context()),
		RoomId:         c.getRoomIdFromCtx(r.Context()),
		PlaylistItemId: input.PlaylistItemId,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	if removeResp.Removed {
		c.broadcastUpdatePlaylist(r.Context(), removeResp.Clients)
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "playlist item deleted"})
}

func (c controller) clearPlaylist(w http.ResponseWriter, r *http.Request) {
	clearResp, err := c.roomService.ClearPlaylist(r.Context(), &room.ClearPlaylistParams{
		SenderId: c.getUserIdFromCtx(r.Context()),
		RoomId:   c.getRoomIdFromCtx(r.Context()),
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.broadcastUpdatePlaylist(r.Context(), clearResp.Clients)

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "playlist cleared"})
}

type reorderPairInput struct {
	PlaylistItemId string `json:"playlist_item_id" validate:"required"`
	OrderIndex     int    `json:"order_index"`
}

type reorderPlaylistInput struct {
	OrderIndexList []reorderPairInput `json:"order_index_list" validate:"required,min=1,dive"`
}

type reorderPlaylistResponse struct {
	FailedItemIds []string `json:"failed_item_ids"`
}

func (c controller) reorderPlaylist(w http.ResponseWriter, r *http.Request) {
	var input reorderPlaylistInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	pairs := make([]room.ReorderPair, 0, len(input.OrderIndexList))
	for _, pair := range input.OrderIndexList {
		pairs = append(pairs, room.ReorderPair{
			PlaylistItemId: pair.PlaylistItemId,
			OrderIndex:     pair.OrderIndex,
		})
	}

	reorderResp, err := c.roomService.ReorderPlaylist(r.Context(), &room.ReorderPlaylistParams{
		SenderId: c.getUserIdFromCtx(r.Context()),
		RoomId:   c.getRoomIdFromCtx(r.Context()),
		Pairs:    pairs,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.broadcastUpdatePlaylist(r.Context(), reorderResp.Clients)

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": reorderPlaylistResponse{
		FailedItemIds: reorderResp.FailedItemIds,
	}})
}

type switchVideoInput struct {
	PlaylistItemId string `json:"playlist_item_id" validate:"required"`
}

func (c controller) switchVideo(w http.ResponseWriter, r *http.Request) {
	var input switchVideoInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	switchResp, err := c.roomService.SwitchVideo(r.Context(), &room.SwitchVideoParams{
		SenderId:       c.getUserIdFromCtx(r.Context()),
		RoomId:         c.getRoomIdFromCtx(r.Context()),
		PlaylistItemId: input.PlaylistItemId,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	if switchResp.BroadcastNeeded {
		c.broadcastUpdatePlaylist(r.Context(), switchResp.Clients)
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "video switched"})
}

type updatePlayerTimeInput struct {
	Paused bool `json:"paused"`
	// required reproduces the original falsy-rejection rules: a zero
	// time/timestamp or empty video id is treated as a malformed body.
	Time      float64 `json:"time" validate:"required"`
	Timestamp int64   `json:"timestamp" validate:"required"`
	VideoId   string  `json:"video_id" validate:"required"`
}

func (c controller) updatePlayerTime(w http.ResponseWriter, r *http.Request) {
	var input updatePlayerTimeInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	userId := c.getUserIdFromCtx(r.Context())
	updateResp, err := c.roomService.UpdatePlayerTime(r.Context(), &room.UpdatePlayerTimeParams{
		SenderId:  userId,
		RoomId:    c.getRoomIdFromCtx(r.Context()),
		Paused:    input.Paused,
		Time:      input.Time,
		Timestamp: input.Timestamp,
		VideoId:   input.VideoId,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.broadcastPlayerStatus(r.Context(), updateResp.Clients, "updateTime", userId, &updateResp.Status)

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "play status updated"})
}

func (c controller) queryPlayerStatus(w http.ResponseWriter, r *http.Request) {
	status, err := c.roomService.GetPlayerStatus(r.Context(), c.getRoomIdFromCtx(r.Context()))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": status})
}

type updatePlayerPauseInput struct {
	Paused    bool  `json:"paused"`
	Timestamp int64 `json:"timestamp" validate:"required"`
}

func (c controller) updatePlayerPause(w http.ResponseWriter, r *http.Request) {
	var input updatePlayerPauseInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	userId := c.getUserIdFromCtx(r.Context())
	updateResp, err := c.roomService.UpdatePlayerPause(r.Context(), &room.UpdatePlayerPauseParams{
		SenderId:  userId,
		RoomId:    c.getRoomIdFromCtx(r.Context()),
		Paused:    input.Paused,
		Timestamp: input.Timestamp,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.broadcastPlayerStatus(r.Context(), updateResp.Clients, "updatePause", userId, &updateResp.Status)

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "play status updated"})
}
