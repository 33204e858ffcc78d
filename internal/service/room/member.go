package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/syncplayer/server/internal/repository/connection"
	"github.com/syncplayer/server/internal/repository/room"
)

type CreateRoomResponse struct {
	RoomId string
}

func (s *service) CreateRoom(ctx context.Context) (CreateRoomResponse, error) {
	roomId := uuid.NewString()
	if err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:    roomId,
		CreatedAt: s.now().UnixMilli(),
	}); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "roomId", roomId)
	return CreateRoomResponse{RoomId: roomId}, nil
}

type JoinRoomParams struct {
	RoomId   string
	Username string
}

type JoinRoomResponse struct {
	UserId string
	Token  string
}

func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	exists, err := s.roomRepo.IsRoomExists(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to check if room exists: %w", err)
	}
	if !exists {
		return JoinRoomResponse{}, ErrRoomNotFound
	}

	membersCount, err := s.roomRepo.GetMembersCount(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get members count: %w", err)
	}
	if membersCount >= s.membersLimit {
		return JoinRoomResponse{}, ErrMembersLimitReached
	}

	userId := uuid.NewString()
	if err := s.roomRepo.SetMember(ctx, &room.SetMemberParams{
		MemberId: userId,
		RoomId:   params.RoomId,
		Username: params.Username,
		JoinedAt: s.now().UnixMilli(),
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to set member: %w", err)
	}

	token, err := s.generateJWT(params.RoomId, userId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined", "roomId", params.RoomId, "userId", userId)
	return JoinRoomResponse{
		UserId: userId,
		Token:  token,
	}, nil
}

type Session struct {
	RoomId string
	UserId string
}

// Authenticate resolves a session token into an explicit (roomId, userId)
// session context. Core operations only ever receive identity through this
// value, never from ambient request state.
func (s *service) Authenticate(ctx context.Context, token string) (Session, error) {
	claims, err := s.parseJWT(token)
	if err != nil {
		return Session{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if _, err := s.roomRepo.GetMember(ctx, &room.GetMemberParams{
		MemberId: claims.UserId,
		RoomId:   claims.RoomId,
	}); err != nil {
		if errors.Is(err, room.ErrMemberNotFound) {
			return Session{}, ErrMemberNotFound
		}

		return Session{}, fmt.Errorf("failed to get member: %w", err)
	}

	return Session{
		RoomId: claims.RoomId,
		UserId: claims.UserId,
	}, nil
}

type ConnectMemberParams struct {
	Client *connection.Client
	RoomId string
	UserId string
}

// ConnectMember registers the client for fanout. A member reconnecting while
// its previous socket is still registered displaces that socket: the old
// client is removed and closed, the new one takes its place.
func (s *service) ConnectMember(ctx context.Context, params *ConnectMemberParams) error {
	err := s.connRepo.Add(params.Client, params.RoomId, params.UserId)
	if err == nil {
		s.logger.InfoContext(ctx, "member connected", "roomId", params.RoomId, "userId", params.UserId)
		return nil
	}
	if !errors.Is(err, connection.ErrAlreadyExists) {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	previous, err := s.connRepo.GetClient(params.RoomId, params.UserId)
	if err != nil {
		return fmt.Errorf("failed to get previous connection: %w", err)
	}
	if err := s.connRepo.RemoveByUserId(params.RoomId, params.UserId); err != nil {
		return fmt.Errorf("failed to remove previous connection: %w", err)
	}
	previous.Close()

	if err := s.connRepo.Add(params.Client, params.RoomId, params.UserId); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	s.logger.InfoContext(ctx, "member reconnected", "roomId", params.RoomId, "userId", params.UserId)
	return nil
}

// DisconnectMember drops the client from the fanout registry. A client that
// was already displaced by a reconnect is treated as removed.
func (s *service) DisconnectMember(ctx context.Context, client *connection.Client) error {
	if err := s.connRepo.RemoveByClient(client); err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("failed to remove connection: %w", err)
	}

	s.logger.InfoContext(ctx, "member disconnected")
	return nil
}
