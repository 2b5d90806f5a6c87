// Package ws provides the admin live feed: a small WebSocket endpoint that
// pushes moderation verdicts to connected admin dashboards as they happen.
// Fanout is a handful of admin connections, so this uses one reader
// goroutine per connection rather than an event loop.
package ws

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/appgrid/community-moderation/internal/metrics"
)

// Feed broadcasts JSON payloads to every connected client.
type Feed struct {
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{conns: make(map[net.Conn]struct{})}
}

// Handler upgrades HTTP requests to WebSocket connections and registers
// them with the feed. Clients are write-only from the server's point of
// view; anything they send is drained and ignored.
func (f *Feed) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			log.Printf("[feed] upgrade failed: %v", err)
			return
		}

		f.add(conn)
		go f.drain(conn)
	}
}

// Broadcast marshals v and sends it to every connected client. Clients
// whose writes fail are dropped.
func (f *Feed) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[feed] marshal broadcast: %v", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.conns {
		if err := wsutil.WriteServerMessage(conn, ws.OpText, data); err != nil {
			log.Printf("[feed] write failed, dropping client: %v", err)
			delete(f.conns, conn)
			conn.Close()
			metrics.FeedClients.Dec()
		}
	}
}

// ClientCount returns the number of connected clients.
func (f *Feed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

// Close disconnects every client.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.conns {
		conn.Close()
		metrics.FeedClients.Dec()
	}
	f.conns = make(map[net.Conn]struct{})
}

func (f *Feed) add(conn net.Conn) {
	f.mu.Lock()
	f.conns[conn] = struct{}{}
	f.mu.Unlock()
	metrics.FeedClients.Inc()
	log.Printf("[feed] client connected (%s)", conn.RemoteAddr())
}

// drain reads and discards client frames so control frames (ping, close)
// are handled; a read error means the client is gone.
func (f *Feed) drain(conn net.Conn) {
	defer f.remove(conn)
	for {
		if _, _, err := wsutil.ReadClientData(conn); err != nil {
			return
		}
	}
}

func (f *Feed) remove(conn net.Conn) {
	f.mu.Lock()
	_, ok := f.conns[conn]
	if ok {
		delete(f.conns, conn)
	}
	f.mu.Unlock()

	if ok {
		conn.Close()
		metrics.FeedClients.Dec()
		log.Printf("[feed] client disconnected")
	}
}
