package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/openalpha/lockdeal/app"
	lockmetrics "github.com/openalpha/lockdeal/metrics"
)

// Channels a client may subscribe to
const (
	ChannelEvents      = "events"  // every committed event
	ChannelEventPrefix = "events:" // events:<type>
	ChannelPoolPrefix  = "pool:"   // pool:<id>
	ChannelOwnerPrefix = "owner:"  // owner:<bech32>, events naming the account
)

// event attributes that name an account
var accountAttributes = []string{"owner", "from", "to", "account", "operator", "spender", "sender"}

// Hub maintains the set of active clients and fans module events out to
// channel subscribers
type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients
	perIP    map[string]int

	broadcast   chan []app.Event
	register    chan *Client
	unregister  chan *Client
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	done chan struct{}

	mu      sync.RWMutex
	config  *HubConfig
	metrics *lockmetrics.Collector
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Messages per second per client
	MessageRateLimit int
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(config *HubConfig, metrics *lockmetrics.Collector) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		perIP:       make(map[string]int),
		broadcast:   make(chan []app.Event, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		done:        make(chan struct{}),
		config:      config,
		metrics:     metrics,
	}
}

// Run starts the hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case events := <-h.broadcast:
			for _, e := range events {
				h.publish(e)
			}
		}
	}
}

// Publish queues committed events for delivery. It matches app.EventListener
// and never blocks the engine; when the queue is full the batch is dropped.
func (h *Hub) Publish(height int64, events []app.Event) {
	select {
	case h.broadcast <- events:
	default:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.perIP[client.ip]++
	if h.metrics != nil {
		h.metrics.RecordWSConnection(1)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for channel, clients := range h.channels {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
	if h.perIP[client.ip]--; h.perIP[client.ip] <= 0 {
		delete(h.perIP, client.ip)
	}
	close(client.send)
	if h.metrics != nil {
		h.metrics.RecordWSConnection(-1)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[*Client]bool)
	h.channels = make(map[string]map[*Client]bool)
}

func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[req.Client]; !ok {
		return
	}
	if _, ok := h.channels[req.Channel]; !ok {
		h.channels[req.Channel] = make(map[*Client]bool)
	}
	h.channels[req.Channel][req.Client] = true
	req.Client.queue(mustMarshal(&WSMessage{Type: "subscribed", Channel: req.Channel}))
}

func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.channels[req.Channel]; ok {
		delete(clients, req.Client)
		if len(clients) == 0 {
			delete(h.channels, req.Channel)
		}
	}
	if _, ok := h.clients[req.Client]; ok {
		req.Client.queue(mustMarshal(&WSMessage{Type: "unsubscribed", Channel: req.Channel}))
	}
}

// ChannelsFor lists the channels an event is delivered on
func ChannelsFor(e app.Event) []string {
	channels := []string{ChannelEvents, ChannelEventPrefix + e.Type}
	if id, ok := e.Attributes["pool_id"]; ok {
		channels = append(channels, ChannelPoolPrefix+id)
	}
	if id, ok := e.Attributes["collateral_pool_id"]; ok {
		channels = append(channels, ChannelPoolPrefix+id)
	}
	seen := map[string]bool{}
	for _, key := range accountAttributes {
		if addr := e.Attributes[key]; addr != "" && !seen[addr] {
			seen[addr] = true
			channels = append(channels, ChannelOwnerPrefix+addr)
		}
	}
	return channels
}

func (h *Hub) publish(e app.Event) {
	for _, channel := range ChannelsFor(e) {
		h.BroadcastToChannel(channel, &WSMessage{Type: e.Type, Channel: channel, Data: e})
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.channels[channel]
	if !ok {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	for client := range clients {
		if client.queue(data) && h.metrics != nil {
			h.metrics.RecordWSMessage(channel)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// isRegistered reports whether client is still attached. Callers hold h.mu.
func (h *Hub) isRegistered(client *Client) bool {
	return h.clients[client]
}

func (h *Hub) ipAllowed(ip string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.perIP[ip] < h.config.MaxClientsPerIP
}

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !h.ipAllowed(ip) {
		http.Error(w, "too many connections from this IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := NewClient(h, conn, uuid.NewString(), ip)
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	for _, channel := range r.URL.Query()["channel"] {
		client.handleSubscribe(channel)
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
