package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"sort"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"go.uber.org/zap"
)

// frames waiting for one user. newer frames are dropped while the outbox is full
const maxPendingFrames = 64

// User. one websocket client receiving navigation updates
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub

	rd sync.Mutex

	outMu    sync.Mutex
	outbox   [][]byte
	draining bool

	closeOnce sync.Once
	onClose   []func()
}

func (u *User) ID() uint {
	return u.id
}

/*
Receive. consume one client frame. control frames (ping, close) are answered, text frames are ignored;
clients only listen. returns an error when the connection must be dropped.
*/
func (u *User) Receive() error {
	u.rd.Lock()
	defer u.rd.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return err
	}
	if h.OpCode.IsControl() {
		// the handler may answer (pong, close) on the same connection
		u.io.Lock()
		defer u.io.Unlock()
		return wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}
	_, err = io.Copy(io.Discard, r)
	return err
}

// OnClose. register f to run once when the user is removed from the hub
func (u *User) OnClose(f func()) {
	u.outMu.Lock()
	u.onClose = append(u.onClose, f)
	u.outMu.Unlock()
}

func (u *User) close() {
	u.closeOnce.Do(func() {
		u.outMu.Lock()
		hooks := u.onClose
		u.outMu.Unlock()
		for _, f := range hooks {
			f()
		}
		u.conn.Close()
	})
}

func (u *User) writeFrame(payload []byte) error {
	u.io.Lock()
	defer u.io.Unlock()
	return wsutil.WriteServerMessage(u.conn, ws.OpText, payload)
}

// enqueue. add payload to the outbox. returns false if it was dropped, and whether a drain must be scheduled.
func (u *User) enqueue(payload []byte) (bool, bool) {
	u.outMu.Lock()
	defer u.outMu.Unlock()

	if len(u.outbox) >= maxPendingFrames {
		return false, false
	}
	u.outbox = append(u.outbox, payload)
	if u.draining {
		return true, false
	}
	u.draining = true
	return true, true
}

func (u *User) cancelDrain() {
	u.outMu.Lock()
	u.draining = false
	u.outMu.Unlock()
}

// drain. write the outbox in order until it is empty. frames of one user are never written concurrently.
func (u *User) drain() error {
	for {
		u.outMu.Lock()
		if len(u.outbox) == 0 {
			u.draining = false
			u.outMu.Unlock()
			return nil
		}
		payload := u.outbox[0]
		u.outbox[0] = nil
		u.outbox = u.outbox[1:]
		u.outMu.Unlock()

		if err := u.writeFrame(payload); err != nil {
			u.outMu.Lock()
			u.outbox = nil
			u.draining = false
			u.outMu.Unlock()
			return err
		}
	}
}

/*
Hub. registry of websocket users. as an engine subscriber it encodes every navigation update once and
hands one write per user to the worker pool, so the engine never waits on a slow client.
*/
type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	pool *concurrent.WorkerPool
	log  *zap.Logger
}

func NewHub(pool *concurrent.WorkerPool, log *zap.Logger) *Hub {
	return &Hub{
		pool: pool,
		ns:   make(map[uint]*User),
		us:   make([]*User, 0),
		log:  log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)
	h.seq++
	h.mu.Unlock()

	return user
}

// Remove. unregister user and close its connection. removing a user twice does nothing.
func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	if _, ok := h.ns[user.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})
	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs
	h.mu.Unlock()

	user.close()
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

func (h *Hub) NumberOfUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}

func (h *Hub) OnNavigationUpdate(state datastructure.NavigationState, events []datastructure.AnnouncementEvent) {
	payload, err := json.Marshal(envelope{"data": NewNavigationUpdateResponse(state, events)})
	if err != nil {
		h.log.Error("encode navigation update", zap.Error(err))
		return
	}
	h.Broadcast(payload)
}

// Broadcast. send payload as one text frame to every user, in broadcast order per user. users whose write
// fails are removed.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		user := user
		queued, schedule := user.enqueue(payload)
		if !queued {
			h.log.Warn("websocket user too slow, dropping navigation update", zap.Uint("user", user.id))
			continue
		}
		if !schedule {
			continue
		}

		task := h.drainTask(user)
		err := h.pool.TrySchedule(task)
		if errors.Is(err, concurrent.ErrPoolBusy) {
			// the user stays marked as draining, so later frames queue behind this one
			go h.scheduleDrain(user, task)
			continue
		}
		if err != nil {
			user.cancelDrain()
			h.log.Error("schedule navigation update for websocket user", zap.Uint("user", user.id), zap.Error(err))
		}
	}
}

func (h *Hub) drainTask(user *User) concurrent.Task {
	return func() {
		if err := user.drain(); err != nil {
			h.log.Error("write navigation update to websocket user", zap.Uint("user", user.id), zap.Error(err))
			h.Remove(user)
		}
	}
}

// scheduleDrain. wait for a free worker off the caller's goroutine.
func (h *Hub) scheduleDrain(user *User, task concurrent.Task) {
	if err := h.pool.Schedule(task); err != nil {
		user.cancelDrain()
		h.log.Error("schedule navigation update for websocket user", zap.Uint("user", user.id), zap.Error(err))
	}
}
