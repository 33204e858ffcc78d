package inmemory

import (
	"log/slog"
	"sync"

	"github.com/syncplayer/server/internal/repository/connection"
)

type clientInfo struct {
	roomId string
	userId string
}

// repo is the live-connection registry: room -> (user -> client). It is the
// only owner of room membership state and is mutated exclusively by
// connect/disconnect events. The registry tracks clients but never closes
// them: the transport layer owns the socket lifecycle.
type repo struct {
	logger     *slog.Logger
	mu         sync.RWMutex
	rooms      map[string]map[string]*connection.Client
	clientList map[*connection.Client]clientInfo
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger:     logger,
		rooms:      make(map[string]map[string]*connection.Client),
		clientList: make(map[*connection.Client]clientInfo),
	}
}

func (r *repo) Add(client *connection.Client, roomId, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("connection.inmemory.Add", "roomId", roomId, "userId", userId)
	if _, ok := r.clientList[client]; ok {
		return connection.ErrAlreadyExists
	}
	if _, ok := r.rooms[roomId][userId]; ok {
		return connection.ErrAlreadyExists
	}

	if r.rooms[roomId] == nil {
		r.rooms[roomId] = make(map[string]*connection.Client)
	}
	r.rooms[roomId][userId] = client
	r.clientList[client] = clientInfo{roomId: roomId, userId: userId}

	return nil
}

func (r *repo) RemoveByClient(client *connection.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.clientList[client]
	if !ok {
		return connection.ErrNotFound
	}

	r.logger.Debug("connection.inmemory.RemoveByClient", "roomId", info.roomId, "userId", info.userId)
	delete(r.clientList, client)
	delete(r.rooms[info.roomId], info.userId)
	if len(r.rooms[info.roomId]) == 0 {
		delete(r.rooms, info.roomId)
	}

	return nil
}

func (r *repo) RemoveByUserId(roomId, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("connection.inmemory.RemoveByUserId", "roomId", roomId, "userId", userId)
	client, ok := r.rooms[roomId][userId]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.clientList, client)
	delete(r.rooms[roomId], userId)
	if len(r.rooms[roomId]) == 0 {
		delete(r.rooms, roomId)
	}

	return nil
}

func (r *repo) GetClient(roomId, userId string) (*connection.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.rooms[roomId][userId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return client, nil
}

// GetRoomClients returns the clients of every room member whose user id is
// not in the exclusion list.
func (r *repo) GetRoomClients(roomId string, excludeUserIds ...string) []*connection.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	excluded := make(map[string]struct{}, len(excludeUserIds))
	for _, userId := range excludeUserIds {
		excluded[userId] = struct{}{}
	}

	clients := make([]*connection.Client, 0, len(r.rooms[roomId]))
	for userId, client := range r.rooms[roomId] {
		if _, ok := excluded[userId]; ok {
			continue
		}
		clients = append(clients, client)
	}

	return clients
}
