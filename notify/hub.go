// Package notify pushes live order events to connected admin dashboards over
// websockets, replacing the polling the dashboard would otherwise do.
package notify

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is one dashboard notification.
type Event struct {
	Kind    string  `json:"kind"` // "created"
	OrderID string  `json:"orderId"`
	Phone   string  `json:"phone,omitempty"`
	Total   float64 `json:"total,omitempty"`
}

// Client is one connected dashboard.
type Client struct {
	Send chan []byte
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					// Slow consumer, drop it.
					close(c.Send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
}

// NotifyOrder broadcasts one order event to every connected dashboard.
func (h *Hub) NotifyOrder(kind, orderID, phone string, total float64) {
	data, err := json.Marshal(Event{Kind: kind, OrderID: orderID, Phone: phone, Total: total})
	if err != nil {
		log.Printf("notify: marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Println("notify: broadcast buffer full, dropping event")
	}
}
