package controllers

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/concurrent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHubBroadcastKeepsOrder(t *testing.T) {
	pool := concurrent.NewWorkerPool(4, 8, 1)
	defer pool.Close()
	hub := NewHub(pool, zaptest.NewLogger(t))

	server, client := net.Pipe()
	defer client.Close()
	user := hub.Register(server)
	assert.Equal(t, 1, hub.NumberOfUsers())

	for i := 0; i < 10; i++ {
		hub.Broadcast([]byte(fmt.Sprintf(`{"seq":%d}`, i)))
	}

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < 10; i++ {
		payload, err := wsutil.ReadServerText(client)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(`{"seq":%d}`, i), string(payload))
	}

	hub.Remove(user)
	hub.Remove(user)
	assert.Equal(t, 0, hub.NumberOfUsers())
}

func TestHubRemovesBrokenUser(t *testing.T) {
	pool := concurrent.NewWorkerPool(2, 2, 1)
	defer pool.Close()
	hub := NewHub(pool, zaptest.NewLogger(t))

	server, client := net.Pipe()
	hub.Register(server)
	client.Close()

	closed := make(chan struct{})
	hub.Register(&closeNotifier{Conn: func() net.Conn { s, c := net.Pipe(); c.Close(); return s }(), closed: closed})

	hub.Broadcast([]byte(`{}`))

	require.Eventually(t, func() bool { return hub.NumberOfUsers() == 0 }, 2*time.Second, 10*time.Millisecond)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection of a removed user was not closed")
	}
}

type closeNotifier struct {
	net.Conn
	closed chan struct{}
}

func (c *closeNotifier) Close() error {
	close(c.closed)
	return c.Conn.Close()
}

func TestRemoveAllUser(t *testing.T) {
	pool := concurrent.NewWorkerPool(2, 2, 1)
	defer pool.Close()
	hub := NewHub(pool, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		s, c := net.Pipe()
		defer c.Close()
		hub.Register(s)
	}
	require.Equal(t, 3, hub.NumberOfUsers())

	hub.RemoveAllUser()
	assert.Equal(t, 0, hub.NumberOfUsers())
}

func TestHubBroadcastDoesNotWaitForBusyPool(t *testing.T) {
	pool := concurrent.NewWorkerPool(1, 0, 0)
	defer pool.Close()
	hub := NewHub(pool, zaptest.NewLogger(t))

	release := make(chan struct{})
	require.NoError(t, pool.Schedule(func() { <-release }))

	server, client := net.Pipe()
	defer client.Close()
	hub.Register(server)

	start := time.Now()
	for i := 0; i < 5; i++ {
		hub.Broadcast([]byte(fmt.Sprintf(`{"seq":%d}`, i)))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(release)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < 5; i++ {
		payload, err := wsutil.ReadServerText(client)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(`{"seq":%d}`, i), string(payload))
	}
}
