package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/localmart-api/internal/application/ordering"
)

var _ ordering.Notifier = (*Hub)(nil)

// Envelope evento publicado hacia una o varias salas. Es también el mensaje que viaja por redis.
type Envelope struct {
	Event   string          `json:"event"`
	Rooms   []string        `json:"rooms"`
	Payload json.RawMessage `json:"payload"`
}

// frame lo que recibe el socket del cliente.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Publisher reparte un envelope entre instancias (redis). Sin publisher el hub entrega en local.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Observer métricas del relay; opcional.
type Observer interface {
	ClientConnected()
	ClientDisconnected()
	FrameDropped()
}

type noopObserver struct{}

func (noopObserver) ClientConnected()    {}
func (noopObserver) ClientDisconnected() {}
func (noopObserver) FrameDropped()       {}

// Hub registro de salas en memoria del proceso. Entrega de mejor esfuerzo:
// si la cola de un cliente está llena el frame se descarta.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	pub Publisher
	obs Observer
	log zerolog.Logger
}

// NewHub crea un hub sin publisher (entrega local).
func NewHub(log zerolog.Logger, obs Observer) *Hub {
	if obs == nil {
		obs = noopObserver{}
	}
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
		obs:     obs,
		log:     log.With().Str("component", "realtime").Logger(),
	}
}

// SetPublisher enruta Notify por el publisher; llamar antes de aceptar conexiones.
func (h *Hub) SetPublisher(p Publisher) {
	h.pub = p
}

// Notify implementa ordering.Notifier. Nunca bloquea ni devuelve error.
func (h *Hub) Notify(ctx context.Context, event string, payload any, rooms ...string) {
	if len(rooms) == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn().Err(err).Str("event", event).Msg("payload no serializable")
		return
	}
	env := Envelope{Event: event, Rooms: rooms, Payload: data}
	if h.pub != nil {
		err := h.pub.Publish(ctx, env)
		if err == nil {
			return
		}
		h.log.Warn().Err(err).Str("event", event).Msg("publish falló, entrega solo local")
	}
	h.Deliver(env)
}

// Deliver entrega el envelope a los clientes locales de sus salas; un cliente
// suscrito a varias de ellas recibe el frame una sola vez.
func (h *Hub) Deliver(env Envelope) {
	msg, err := json.Marshal(frame{Event: env.Event, Data: env.Payload})
	if err != nil {
		h.log.Warn().Err(err).Str("event", env.Event).Msg("frame no serializable")
		return
	}
	h.mu.RLock()
	targets := make(map[*Client]struct{})
	for _, room := range env.Rooms {
		for c := range h.rooms[room] {
			targets[c] = struct{}{}
		}
	}
	for c := range targets {
		if !c.enqueue(msg) {
			h.obs.FrameDropped()
			h.log.Warn().Str("event", env.Event).Str("user_id", c.userID).Msg("cola llena, frame descartado")
		}
	}
	h.mu.RUnlock()
}

// send responde solo a este cliente (joined, error).
func (h *Hub) send(c *Client, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	msg, err := json.Marshal(frame{Event: event, Data: payload})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if !c.enqueue(msg) {
		h.obs.FrameDropped()
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.obs.ClientConnected()
}

// unregister saca al cliente de todas sus salas y cierra su cola.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	c.closeSend()
	h.mu.Unlock()
	h.obs.ClientDisconnected()
}

// Join suscribe al cliente a la sala. La autorización se hace antes, en el servidor.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members := h.rooms[room]
	if members == nil {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	h.leaveLocked(c, room)
	h.mu.Unlock()
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize número de clientes locales en la sala.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close desconecta a todos los clientes (apagado del proceso).
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.unregister(c)
	}
}
