package services

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	LeadCreated  = "contact.created"
	LeadNotified = "contact.notified"
)

type LeadEvent struct {
	Type         string    `json:"type"`
	ContactID    int64     `json:"contactId"`
	FullName     string    `json:"fullName"`
	WorkEmail    string    `json:"workEmail"`
	NotifyStatus string    `json:"notifyStatus"`
	At           time.Time `json:"at"`
}

// LeadFeed fans contact events out to connected admin websockets. Broadcast never blocks
// the caller; events are dropped when the buffer is full.
type LeadFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan LeadEvent
}

func NewLeadFeed() *LeadFeed {
	return &LeadFeed{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan LeadEvent, 16),
	}
}

func (h *LeadFeed) Run(ctx context.Context) {
	for {
		select {
		case event := <-h.ch:
			h.send(event)
		case <-ctx.Done():
			return
		}
	}
}

func (h *LeadFeed) send(event LeadEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

func (h *LeadFeed) Broadcast(event LeadEvent) {
	if h == nil {
		return
	}
	select {
	case h.ch <- event:
	default:
	}
}

func (h *LeadFeed) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *LeadFeed) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *LeadFeed) Clients() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
