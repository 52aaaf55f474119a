package chathub

import (
	"context"
	"sync"
	"time"

	"dmchat/backend/internal/storage"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

const presenceTimeout = 2 * time.Second

// Hub is the realtime composition root: it owns the Directory, the Router
// built over it and the optional presence publisher, and hands out
// sessions for upgraded connections.
type Hub struct {
	Directory *Directory
	Router    *Router
	Presence  storage.PresenceStore
	Metrics   *Metrics

	mu       sync.Mutex
	closing  bool
	sessions sync.WaitGroup
}

func NewHub(directory *Directory, router *Router, presence storage.PresenceStore, metrics *Metrics) *Hub {
	return &Hub{
		Directory: directory,
		Router:    router,
		Presence:  presence,
		Metrics:   metrics,
	}
}

// NewSession binds an already authenticated connection to userID.
func (h *Hub) NewSession(conn *websocket.Conn, userID uint) *WebSocketClient {
	return newWebSocketClient(h, conn, userID)
}

func (h *Hub) register(c Client) {
	first := h.Directory.Register(c.GetUserID(), c)
	h.Metrics.connected(1)
	glog.Infof("handle %s registered for user %d", c.HandleID(), c.GetUserID())
	if first {
		h.setPresence(c.GetUserID(), true)
	}
}

func (h *Hub) unregister(c Client) {
	last := h.Directory.Unregister(c.GetUserID(), c)
	h.Metrics.connected(-1)
	glog.Infof("handle %s unregistered for user %d", c.HandleID(), c.GetUserID())
	if last {
		h.setPresence(c.GetUserID(), false)
	}
}

// IsOnline reports whether userID holds a live connection on this process.
func (h *Hub) IsOnline(userID uint) bool {
	return len(h.Directory.ActiveHandles(userID)) > 0
}

// track admits a new session unless the hub is shutting down. Every admitted
// session must call h.sessions.Done once it has unregistered.
func (h *Hub) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.sessions.Add(1)
	return true
}

// Shutdown refuses new sessions, closes every live one and waits until all
// of them have unregistered, or until ctx is done.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	clients := h.Directory.all()
	glog.Infof("closing %d live connections", len(clients))
	for _, c := range clients {
		c.Close()
	}

	drained := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) setPresence(userID uint, online bool) {
	if h.Presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.Presence.SetOnline(ctx, userID, online); err != nil {
		glog.Warningf("presence update for user %d failed: %v", userID, err)
	}
}
