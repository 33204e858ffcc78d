package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/syncplayer/server/internal/repository/connection"
	"github.com/syncplayer/server/internal/repository/room"
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrPlaylistItemNotFound = errors.New("playlist item not found")
	ErrPlayStatusNotFound   = errors.New("play status not found")
	ErrMembersLimitReached  = errors.New("members limit reached")
	ErrPlaylistLimitReached = errors.New("playlist limit reached")
	ErrEmptyVideoSources    = errors.New("no video sources provided")
)

type iRoomRepo interface {
	// room
	SetRoom(context.Context, *room.SetRoomParams) error
	IsRoomExists(ctx context.Context, roomId string) (bool, error)
	// member
	SetMember(context.Context, *room.SetMemberParams) error
	GetMember(context.Context, *room.GetMemberParams) (room.Member, error)
	GetMembersCount(ctx context.Context, roomId string) (int, error)
	// playlist
	SetPlaylistItem(context.Context, *room.SetPlaylistItemParams) (int, error)
	GetPlaylistItem(context.Context, *room.GetPlaylistItemParams) (room.PlaylistItem, error)
	GetPlaylistEntries(ctx context.Context, roomId string) ([]room.PlaylistEntry, error)
	GetPlaylistLength(ctx context.Context, roomId string) (int, error)
	RemovePlaylistItem(context.Context, *room.RemovePlaylistItemParams) error
	UpdatePlaylistItemOrder(context.Context, *room.UpdatePlaylistItemOrderParams) error
	UpdatePlaylistItemStatus(context.Context, *room.UpdatePlaylistItemStatusParams) error
	ClearPlaylist(ctx context.Context, roomId string) error
	// video source
	SetVideoSource(context.Context, *room.SetVideoSourceParams) error
	GetVideoSourceIds(ctx context.Context, roomId, playlistItemId string) ([]string, error)
	GetVideoSource(ctx context.Context, roomId, videoSourceId string) (room.VideoSource, error)
	// play status
	SetPlayStatus(context.Context, *room.SetPlayStatusParams) error
	GetPlayStatus(ctx context.Context, roomId string) (room.PlayStatus, error)
	UpdatePlayStatus(context.Context, *room.UpdatePlayStatusParams) error
	UpdatePlayStatusPause(context.Context, *room.UpdatePlayStatusPauseParams) error
}

type iConnRepo interface {
	Add(client *connection.Client, roomId, userId string) error
	RemoveByClient(client *connection.Client) error
	RemoveByUserId(roomId, userId string) error
	GetClient(roomId, userId string) (*connection.Client, error)
	GetRoomClients(roomId string, excludeUserIds ...string) []*connection.Client
}

type Config struct {
	Secret        string
	MembersLimit  int
	PlaylistLimit int
}

type service struct {
	roomRepo      iRoomRepo
	connRepo      iConnRepo
	logger        *slog.Logger
	secret        string
	membersLimit  int
	playlistLimit int
	// clock is indirected so drift-correction tests can advance time.
	clock func() time.Time

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger, cfg *Config) *service {
	return &service{
		roomRepo:      roomRepo,
		connRepo:      connRepo,
		logger:        logger,
		secret:        cfg.Secret,
		membersLimit:  cfg.MembersLimit,
		playlistLimit: cfg.PlaylistLimit,
		clock:         time.Now,
		roomLocks:     make(map[string]*sync.Mutex),
	}
}

// lockRoom serializes multi-step state transitions of a single room, so two
// near-simultaneous switches cannot leave two items marked as playing.
func (s *service) lockRoom(roomId string) *sync.Mutex {
	s.mu.Lock()
	lock, ok := s.roomLocks[roomId]
	if !ok {
		lock = &sync.Mutex{}
		s.roomLocks[roomId] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock
}

func (s *service) now() time.Time {
	return s.clock()
}
