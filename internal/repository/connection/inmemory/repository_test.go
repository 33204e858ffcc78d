package inmemory

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncplayer/server/internal/repository/connection"
)

func TestGetRoomClients(t *testing.T) {
	repo := NewRepo(slog.Default())

	client1 := connection.NewClient(nil)
	client2 := connection.NewClient(nil)
	client3 := connection.NewClient(nil)
	client4 := connection.NewClient(nil)

	require.NoError(t, repo.Add(client1, "room-1", "user-1"))
	require.NoError(t, repo.Add(client2, "room-1", "user-2"))
	require.NoError(t, repo.Add(client3, "room-1", "user-3"))
	require.NoError(t, repo.Add(client4, "room-2", "user-4"))

	clients := repo.GetRoomClients("room-1")
	assert.Len(t, clients, 3)
	assert.NotContains(t, clients, client4, "clients must not leak across rooms")

	clients = repo.GetRoomClients("room-1", "user-2")
	assert.Len(t, clients, 2)
	assert.NotContains(t, clients, client2, "the excluded member must not receive its own echo")

	clients = repo.GetRoomClients("room-1", "user-1", "user-2", "user-3")
	assert.Empty(t, clients)

	clients = repo.GetRoomClients("missing-room")
	assert.Empty(t, clients)
}

func TestAddDuplicate(t *testing.T) {
	repo := NewRepo(slog.Default())

	client := connection.NewClient(nil)
	require.NoError(t, repo.Add(client, "room-1", "user-1"))
	assert.ErrorIs(t, repo.Add(client, "room-1", "user-1"), connection.ErrAlreadyExists)
	assert.ErrorIs(t, repo.Add(connection.NewClient(nil), "room-1", "user-1"), connection.ErrAlreadyExists)
}

func TestRemoveByClient(t *testing.T) {
	repo := NewRepo(slog.Default())

	client := connection.NewClient(nil)
	require.NoError(t, repo.Add(client, "room-1", "user-1"))
	require.NoError(t, repo.RemoveByClient(client))
	assert.Empty(t, repo.GetRoomClients("room-1"))

	assert.ErrorIs(t, repo.RemoveByClient(client), connection.ErrNotFound)
}

func TestRemoveByUserId(t *testing.T) {
	repo := NewRepo(slog.Default())

	client1 := connection.NewClient(nil)
	client2 := connection.NewClient(nil)
	require.NoError(t, repo.Add(client1, "room-1", "user-1"))
	require.NoError(t, repo.Add(client2, "room-1", "user-2"))

	require.NoError(t, repo.RemoveByUserId("room-1", "user-1"))

	clients := repo.GetRoomClients("room-1")
	require.Len(t, clients, 1)
	assert.Equal(t, client2, clients[0])

	_, err := repo.GetClient("room-1", "user-1")
	assert.ErrorIs(t, err, connection.ErrNotFound)

	assert.ErrorIs(t, repo.RemoveByUserId("room-1", "user-1"), connection.ErrNotFound)
}

func TestGetClient(t *testing.T) {
	repo := NewRepo(slog.Default())

	client := connection.NewClient(nil)
	require.NoError(t, repo.Add(client, "room-1", "user-1"))

	got, err := repo.GetClient("room-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, client, got)
}
