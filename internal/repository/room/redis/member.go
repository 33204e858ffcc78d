package redis

import (
	"context"
	"fmt"

	"github.com/syncplayer/server/internal/repository/room"
)

func (r repo) getMemberKey(roomId, memberId string) string {
	return "room:" + roomId + ":member:" + memberId
}

func (r repo) getMemberListKey(roomId string) string {
	return "room:" + roomId + ":memberlist"
}

func (r repo) SetMember(ctx context.Context, params *room.SetMemberParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	member := room.Member{
		Username: params.Username,
		JoinedAt: params.JoinedAt,
	}
	memberKey := r.getMemberKey(params.RoomId, params.MemberId)
	pipe.HSet(ctx, memberKey, member)
	pipe.Expire(ctx, memberKey, r.expireDuration)

	memberListKey := r.getMemberListKey(params.RoomId)
	pipe.SAdd(ctx, memberListKey, params.MemberId)
	pipe.Expire(ctx, memberListKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set member: %w", err)
	}

	return nil
}

func (r repo) GetMember(ctx context.Context, params *room.GetMemberParams) (room.Member, error) {
	memberKey := r.getMemberKey(params.RoomId, params.MemberId)
	res, err := r.rc.Exists(ctx, memberKey).Result()
	if err != nil {
		return room.Member{}, fmt.Errorf("failed to get member: %w", err)
	}

	if res == 0 {
		return room.Member{}, room.ErrMemberNotFound
	}

	var member room.Member
	if err := r.rc.HGetAll(ctx, memberKey).Scan(&member); err != nil {
		return room.Member{}, fmt.Errorf("failed to get member: %w", err)
	}

	r.rc.Expire(ctx, memberKey, r.expireDuration)

	return member, nil
}

func (r repo) GetMembersCount(ctx context.Context, roomId string) (int, error) {
	res, err := r.rc.SCard(ctx, r.getMemberListKey(roomId)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get members count: %w", err)
	}

	return int(res), nil
}
