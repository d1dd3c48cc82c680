package api

import (
	"cargo-fleet-service/internal/api/dto"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsReply struct {
	Type     string                `json:"type"`
	Snapshot *dto.SnapshotResponse `json:"snapshot"`
	Feedback *dto.FeedbackResponse `json:"feedback"`
	Error    string                `json:"error"`
}

func TestPlacementSocket(t *testing.T) {
	a := newTestAPI(t)
	v := a.createVan(t)
	box := a.createBox(t, v.ID, "a", 0, 0, 100)

	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/vehicles/" + v.ID + "/placement/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg wsReply
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "snapshot", msg.Type)
	require.Len(t, msg.Snapshot.Cargos, 1)

	require.NoError(t, conn.WriteJSON(dto.PlacementEventRequest{Type: "drag_move", CargoID: box.ID, X: 19, Y: 21}))
	msg = wsReply{}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "feedback", msg.Type)
	assert.Equal(t, 20.0, msg.Feedback.Displayed.X)
	assert.Equal(t, 20.0, msg.Feedback.Displayed.Y)
	assert.True(t, msg.Feedback.Valid)

	require.NoError(t, conn.WriteJSON(dto.PlacementEventRequest{Type: "rotate", CargoID: "missing", Angle: 90}))
	msg = wsReply{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "not found")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = wsReply{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "invalid json message", msg.Error)

	require.NoError(t, conn.WriteJSON(dto.PlacementEventRequest{Type: "drag_end", CargoID: box.ID, X: 19, Y: 21}))
	msg = wsReply{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.True(t, msg.Feedback.Changed)
	assert.Equal(t, "idle", msg.Feedback.State)
}

func TestPlacementSocketUnknownVehicle(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/vehicles/missing/placement/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// placementState is safe to call from assert.Eventually callbacks.
func (a *testAPI) placementState(vehicleID string) string {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vehicles/"+vehicleID+"/placement", nil))

	var snap dto.SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		return ""
	}
	return snap.State
}

func dialPlacement(t *testing.T, srv *httptest.Server, vehicleID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/vehicles/" + vehicleID + "/placement/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg wsReply
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "snapshot", msg.Type)
	return conn
}

func TestPlacementSocketDisconnectCancelsDrag(t *testing.T) {
	a := newTestAPI(t)
	v := a.createVan(t)
	box := a.createBox(t, v.ID, "a", 0, 0, 100)

	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	conn := dialPlacement(t, srv, v.ID)
	require.NoError(t, conn.WriteJSON(dto.PlacementEventRequest{Type: "drag_move", CargoID: box.ID, X: 20, Y: 20}))
	var msg wsReply
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "dragging", msg.Feedback.State)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool {
		return a.placementState(v.ID) == "idle"
	}, 2*time.Second, 10*time.Millisecond)

	rec := a.do(t, http.MethodGet, "/vehicles/"+v.ID+"/placement", nil)
	snap := decode[dto.SnapshotResponse](t, rec)
	require.Len(t, snap.Cargos, 1)
	assert.Equal(t, dto.Position{}, snap.Cargos[0].Position, "cancelled drag commits nothing")
}

func TestPlacementSocketDisconnectLeavesOtherDrag(t *testing.T) {
	a := newTestAPI(t)
	v := a.createVan(t)
	box := a.createBox(t, v.ID, "a", 0, 0, 100)
	base := "/vehicles/" + v.ID + "/placement"

	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	conn := dialPlacement(t, srv, v.ID)

	rec := a.do(t, http.MethodPost, base+"/events", dto.PlacementEventRequest{Type: "drag_move", CargoID: box.ID, X: 20, Y: 20})
	require.Equal(t, http.StatusOK, rec.Code)

	// A round trip proves the socket is live before it goes away.
	require.NoError(t, conn.WriteJSON(dto.PlacementEventRequest{Type: "rotate", CargoID: "missing"}))
	var msg wsReply
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "error", msg.Type)
	conn.Close()

	assert.Never(t, func() bool {
		return a.placementState(v.ID) != "dragging"
	}, 200*time.Millisecond, 20*time.Millisecond)
}
