// Package wssink is the network output sink: it serializes the engine's
// corrected ARGB buffer and pushes it to connected pixel-pusher clients
// over a websocket, the transport the Output Stage's network-thread
// variant dispatches to (spec.md §4.5).
package wssink

import (
	"encoding/binary"
	"log"
	"net/http"
	"sync"

	"lxcore/internal/lxcolor"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Sink accepts websocket connections at its HTTP handler and broadcasts
// each OnSend buffer to every connected client as a little-endian
// uint32-per-pixel frame.
type Sink struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New constructs an empty broadcast sink.
func New() *Sink {
	return &Sink{clients: make(map[*websocket.Conn]struct{})}
}

// Handler upgrades incoming HTTP requests to websocket connections and
// registers them as broadcast targets.
func (s *Sink) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wssink: upgrade failed: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer s.remove(conn)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
}

func (s *Sink) remove(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// OnSend implements output.Sender: it encodes colors and writes it to
// every connected client, dropping any client whose write fails.
func (s *Sink) OnSend(colors lxcolor.Buffer) {
	frame := make([]byte, len(colors)*4)
	for i, c := range colors {
		binary.LittleEndian.PutUint32(frame[i*4:], uint32(c))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}
