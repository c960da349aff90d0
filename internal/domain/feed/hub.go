package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// redisChannel carries feed events between instances when Redis is available
const redisChannel = "feed:events"

// Event is one entry on the live admin feed
type Event struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans booking events out to connected admin dashboards. With a Redis
// client it publishes through pub/sub so every instance sees every event;
// without one it broadcasts to local connections only.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	redis      *redis.Client
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		redis:      redisClient,
	}
}

// Run owns the client set. It exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.redis != nil {
		go h.subscribe(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			log.Debug().Int("clients", len(h.clients)).Msg("feed client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Debug().Int("clients", len(h.clients)).Msg("feed client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Publish sends an event to every connected dashboard. Never blocks the
// caller: if the hub is backed up the event is dropped with a warning.
func (h *Hub) Publish(event string, payload interface{}) {
	data, err := json.Marshal(Event{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal feed event")
		return
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.redis.Publish(ctx, redisChannel, data).Err(); err != nil {
			log.Warn().Err(err).Msg("feed publish failed, falling back to local broadcast")
		} else {
			return
		}
	}

	select {
	case h.broadcast <- data:
	default:
		log.Warn().Str("event", event).Msg("feed backlog full, dropping event")
	}
}

// subscribe relays events published by any instance to local clients
func (h *Hub) subscribe(ctx context.Context) {
	sub := h.redis.Subscribe(ctx, redisChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			select {
			case h.broadcast <- []byte(msg.Payload):
			default:
			}
		}
	}
}
