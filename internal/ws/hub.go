package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const EventOptimizationCompleted = "optimization.completed"

// Event is the message pushed to every connected client.
type Event struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Generation      int64     `json:"generation"`
	TripCount       int       `json:"trip_count"`
	UnassignedCount int       `json:"unassigned_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(typ string, generation int64, trips, unassigned int, at time.Time) Event {
	return Event{
		ID:              uuid.NewString(),
		Type:            typ,
		Generation:      generation,
		TripCount:       trips,
		UnassignedCount: unassigned,
		CreatedAt:       at,
	}
}

// Hub fans events out to connected clients. The client set is owned by the
// Run goroutine; everything else talks to it through channels.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Run processes hub requests until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			log.WithField("clients", len(h.clients)).Debug("ws client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.WithField("clients", len(h.clients)).Debug("ws client disconnected")
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer: drop it rather than stall the others.
					delete(h.clients, c)
					close(c.send)
					log.Warn("ws client buffer full, disconnecting")
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Publish queues ev for every client. It never blocks; when the queue is full
// the event is dropped.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("ws marshal event failed")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.WithField("type", ev.Type).Warn("ws broadcast queue full, event dropped")
	}
}

// Clients returns the number of connected clients. Run must be active.
func (h *Hub) Clients() int {
	reply := make(chan int)
	h.count <- reply
	return <-reply
}
