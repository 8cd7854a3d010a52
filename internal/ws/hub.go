package ws

import (
	"log"
	"sync"
)

type message struct {
	topic string
	data  []byte
}

// Hub fans preview updates out to the websocket clients of one topic. Topics
// are editing-session ids.
type Hub struct {
	topics     map[string]map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		broadcast:  make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.topics[client.topic]
			if !ok {
				set = make(map[*Client]bool)
				h.topics[client.topic] = set
			}
			set[client] = true
			total := len(set)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | session=%s clients=%d", client.topic, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			total := h.remove(client)
			if h.logger != nil {
				h.logger.Printf("WS disconnected | session=%s clients=%d", client.topic, total)
			}

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.topics[msg.topic]))
			for c := range h.topics[msg.topic] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.data:
				default:
					total := h.remove(client)
					if h.logger != nil {
						h.logger.Printf("WS dropped slow client | session=%s clients=%d", client.topic, total)
					}
				}
			}
		}
	}
}

// remove drops client from its topic and closes its send channel once.
// It returns the number of clients left on the topic.
func (h *Hub) remove(client *Client) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.topics[client.topic]
	if !ok {
		return 0
	}
	if _, ok := set[client]; ok {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.topics, client.topic)
	}
	return len(set)
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Broadcast queues data for every client subscribed to topic. It never
// blocks; updates are dropped when the queue is full.
func (h *Hub) Broadcast(topic string, data []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message{topic: topic, data: data}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS broadcast dropped | session=%s reason=buffer_full", topic)
		}
	}
}

func (h *Hub) ClientCount(topic string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}
