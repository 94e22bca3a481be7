// Package spectate streams world frames to websocket watchers.
package spectate

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/flappyball/core/internal/world"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a renderer that fans frames out to every connected spectator.
// Render runs on the loop goroutine; connections come and go on HTTP
// goroutines.
type Hub struct {
	mu       sync.Mutex
	subs     map[*subscriber]struct{}
	last     []byte
	seq      uint64
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// Render encodes the snapshot and queues it for every spectator. A spectator
// that has fallen behind skips frames.
func (h *Hub) Render(snap *world.Snapshot) {
	h.seq++
	data, err := msgpack.Marshal(FrameOf(snap, h.seq))
	if err != nil {
		h.log.Error("encode frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for sub := range h.subs {
		select {
		case sub.send <- data:
		default:
		}
	}
}

// Count reports connected spectators.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// ServeHTTP upgrades the request and streams frames until the peer leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	if h.last != nil {
		sub.send <- h.last
	}
	n := len(h.subs)
	h.mu.Unlock()
	h.log.Info("spectator joined", zap.String("remote", r.RemoteAddr), zap.Int("watching", n))

	done := make(chan struct{})
	go h.writeLoop(sub, done)

	// Spectators never send anything meaningful; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	h.drop(sub)
	h.log.Info("spectator left", zap.String("remote", r.RemoteAddr))
}

func (h *Hub) writeLoop(sub *subscriber, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case data := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				h.log.Debug("spectator write failed", zap.Error(err))
				sub.conn.Close()
				return
			}
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.conn.Close()
}

// Serve listens on addr until ctx is done.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/watch", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.log.Info("spectator feed listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
