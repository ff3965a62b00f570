package ws

import (
	"encoding/json"
	"sync"
)

// Client is a single lawyer WebSocket connection.
type Client struct {
	LawyerID uint
	Send     chan []byte
	hub      *LeadHub
	mu       sync.Mutex
	closed   bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// LeadHub tracks connected lawyers so fresh lead offers can be pushed to them
// the moment dispatch assigns a referral. One lawyer may hold several
// connections.
type LeadHub struct {
	mu       sync.RWMutex
	byLawyer map[uint]map[*Client]struct{}
}

func NewLeadHub() *LeadHub {
	return &LeadHub{byLawyer: make(map[uint]map[*Client]struct{})}
}

func (h *LeadHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byLawyer[c.LawyerID] == nil {
		h.byLawyer[c.LawyerID] = make(map[*Client]struct{})
	}
	h.byLawyer[c.LawyerID][c] = struct{}{}
}

func (h *LeadHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byLawyer[c.LawyerID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byLawyer, c.LawyerID)
		}
	}
}

// PushToLawyer sends the payload to every connection the lawyer holds.
// Slow consumers are skipped rather than blocking the dispatcher.
func (h *LeadHub) PushToLawyer(lawyerID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byLawyer[lawyerID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *LeadHub) ConnectedLawyers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byLawyer)
}
