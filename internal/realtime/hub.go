package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	Created ChangeKind = "CREATED"
	Updated ChangeKind = "UPDATED"
	Deleted ChangeKind = "DELETED"
)

// Server → client event names, one per tracked entity.
const (
	EventScheduleChanged = "schedule.changed"
	EventRouteChanged    = "route.changed"
	EventStopChanged     = "stop.changed"
)

// ChangePayload is the wire shape of a change event. Exactly one entity id is
// set, matching the event name.
type ChangePayload struct {
	Type       ChangeKind `json:"type"`
	ScheduleID *uuid.UUID `json:"scheduleId,omitempty"`
	RouteID    *uuid.UUID `json:"routeId,omitempty"`
	StopID     *uuid.UUID `json:"stopId,omitempty"`
}

// Envelope wraps a payload with its event name for the raw WebSocket channel.
type Envelope struct {
	Event string        `json:"event"`
	Data  ChangePayload `json:"data"`
}

// Conn is the slice of a WebSocket connection the hub needs.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
}

// client serializes writes to one connection; WriteJSON on the underlying
// conn is not safe for concurrent use.
type client struct {
	mu   sync.Mutex
	conn Conn
}

func (c *client) write(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans entity-change events out to every connected client. Delivery is
// best-effort: nothing is persisted or replayed, and a client that is not
// connected at emission time simply sees the change on its next fetch. A
// write failure drops that one connection and never affects the others.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*client
}

func NewHub() *Hub {
	return &Hub{conns: make(map[uuid.UUID]*client)}
}

// Add registers a connection and returns its id for later removal.
func (h *Hub) Add(conn Conn) uuid.UUID {
	id := uuid.New()
	h.mu.Lock()
	h.conns[id] = &client{conn: conn}
	h.mu.Unlock()
	slog.Info("realtime client connected", "conn_id", id, "total", h.Count())
	return id
}

func (h *Hub) Remove(id uuid.UUID) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) EmitScheduleChanged(kind ChangeKind, scheduleID uuid.UUID) {
	h.emit(EventScheduleChanged, ChangePayload{Type: kind, ScheduleID: &scheduleID})
}

func (h *Hub) EmitRouteChanged(kind ChangeKind, routeID uuid.UUID) {
	h.emit(EventRouteChanged, ChangePayload{Type: kind, RouteID: &routeID})
}

func (h *Hub) EmitStopChanged(kind ChangeKind, stopID uuid.UUID) {
	h.emit(EventStopChanged, ChangePayload{Type: kind, StopID: &stopID})
}

func (h *Hub) emit(event string, payload ChangePayload) {
	h.mu.RLock()
	targets := make(map[uuid.UUID]*client, len(h.conns))
	for id, cl := range h.conns {
		targets[id] = cl
	}
	h.mu.RUnlock()

	for id, cl := range targets {
		if err := cl.write(Envelope{Event: event, Data: payload}); err != nil {
			slog.Debug("realtime write failed, dropping connection", "conn_id", id, "error", err)
			h.Remove(id)
		}
	}
}
