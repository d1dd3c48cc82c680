package handlers

import (
	"cargo-fleet-service/internal/api/dto"
	"cargo-fleet-service/internal/placement"
	"cargo-fleet-service/internal/services"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsMaxMessage = 4096
)

type wsMessage struct {
	Type     string                `json:"type"`
	Snapshot *dto.SnapshotResponse `json:"snapshot,omitempty"`
	Feedback *dto.FeedbackResponse `json:"feedback,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// wsConn serialises writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// PlacementSocket streams placement events for one vehicle. The first
// message sent is a snapshot; each client event is answered with feedback
// or an error message. An unfinished drag is cancelled on disconnect.
type PlacementSocket struct {
	Sessions *services.PlacementSessions
	Upgrader websocket.Upgrader
}

func NewPlacementSocket(sessions *services.PlacementSessions) *PlacementSocket {
	return &PlacementSocket{
		Sessions: sessions,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *PlacementSocket) Serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	vehicleID := r.PathValue("id")
	log := zerolog.Ctx(r.Context()).With().Str("vehicle_id", vehicleID).Logger()

	// Fail before upgrading so unknown vehicles get a normal 404.
	snap, err := h.Sessions.Snapshot(r.Context(), vehicleID)
	if err != nil {
		writeServiceError(w, r, "placement socket", err)
		return
	}

	raw, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn := &wsConn{conn: raw}
	defer raw.Close()

	// Hijacked connections outlive the request context.
	ctx, cancel := context.WithCancel(log.WithContext(context.WithoutCancel(r.Context())))
	defer cancel()

	// dragging is the item whose drag this connection started, if any.
	var dragging string
	defer func() {
		if dragging == "" {
			return
		}
		ev := services.PlacementEvent{Type: services.EventDragCancel, CargoID: dragging}
		if _, err := h.Sessions.Apply(ctx, vehicleID, ev); err != nil {
			log.Warn().Err(err).Msg("cancel drag on disconnect failed")
		}
	}()

	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			}
		}
	}()

	raw.SetReadLimit(wsMaxMessage)
	raw.SetReadDeadline(time.Now().Add(wsPongWait))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	first := dto.FromSnapshot(snap)
	if err := conn.writeJSON(wsMessage{Type: "snapshot", Snapshot: &first}); err != nil {
		return
	}

	log.Debug().Msg("placement socket opened")
	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("placement socket read failed")
			}
			return
		}
		raw.SetReadDeadline(time.Now().Add(wsPongWait))

		var req dto.PlacementEventRequest
		var msg wsMessage
		if err := json.Unmarshal(data, &req); err != nil {
			msg = wsMessage{Type: "error", Error: "invalid json message"}
		} else if fb, err := h.Sessions.Apply(ctx, vehicleID, req.Event()); err != nil {
			msg = wsMessage{Type: "error", Error: err.Error()}
		} else {
			dragging = trackDrag(dragging, req, fb)
			res := dto.FromFeedback(fb)
			msg = wsMessage{Type: "feedback", Feedback: &res}
		}

		if err := conn.writeJSON(msg); err != nil {
			log.Warn().Err(err).Msg("placement socket write failed")
			return
		}
	}
}

// trackDrag follows which item this connection is dragging after an applied event.
func trackDrag(current string, req dto.PlacementEventRequest, fb placement.Feedback) string {
	switch services.EventType(req.Type) {
	case services.EventDragStart, services.EventDragMove:
		if fb.State == placement.StateDragging {
			return req.CargoID
		}
	case services.EventDragEnd:
		return ""
	case services.EventDragCancel:
		if fb.State == placement.StateIdle {
			return ""
		}
	}
	return current
}
