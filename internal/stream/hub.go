// Package stream fans out live ride updates to connected watchers.
package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	RideID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(rideID string) *Client {
	client := &Client{
		RideID: rideID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[rideID] == nil {
		h.clients[rideID] = map[*Client]struct{}{}
	}
	h.clients[rideID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rideClients, ok := h.clients[client.RideID]; ok {
		delete(rideClients, client)
		if len(rideClients) == 0 {
			delete(h.clients, client.RideID)
		}
	}
	close(client.Send)
}

// Broadcast publishes a payload to every watcher of the ride. With Redis
// attached the payload goes through pub/sub so watchers on other instances
// see it too; local delivery then happens via the subscription loop, once.
func (h *Hub) Broadcast(rideID string, payload []byte) {
	if h.redis == nil {
		h.deliver(rideID, payload)
		return
	}
	err := h.redis.Publish(context.Background(), redisChannel(rideID), payload).Err()
	if err != nil {
		log.Printf("redis publish error: %v", err)
		// redis is down, local watchers still get the point
		h.deliver(rideID, payload)
	}
}

func (h *Hub) deliver(rideID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[rideID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redis.PSubscribe(context.Background(), "rides:*:live")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(rideIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(rideID string) string {
	return "rides:" + rideID + ":live"
}

func rideIDFromChannel(ch string) string {
	// rides:{ride}:live
	const prefix = "rides:"
	const suffix = ":live"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
