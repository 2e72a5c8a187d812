package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/gesture"
	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
	ws "github.com/weekgrid/backend/internal/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 65536
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The page may be served from a dev server on another port
		return true
	},
}

// WebSocketUpgrade returns a handler that upgrades HTTP connections to
// WebSocket. Each connection gets its own gesture controller; the page's
// pointer and drag input arrives as client messages.
func WebSocketUpgrade(
	hub *ws.Hub,
	store *schedule.Store,
	mapper grid.Mapper,
	broadcaster *ws.EventBroadcaster,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			zap.L().Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := ws.NewClient(hub)
		hub.Register(client)
		client.Reply(ws.NewMessage(ws.TypeScheduleUpdated, broadcaster.SchedulePayload(store.Snapshot())))

		controller := gesture.NewController(store.Source("ws:"+client.ID()), mapper)

		// Start read and write pumps
		go writePump(conn, client)
		go readPump(conn, client, hub, controller)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func writePump(conn *websocket.Conn, client *ws.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump feeds client messages to the connection's gesture controller, one
// at a time and in arrival order.
func readPump(conn *websocket.Conn, client *ws.Client, hub *ws.Hub, controller *gesture.Controller) {
	defer func() {
		controller.Close()
		hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessage)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("websocket read failed", zap.String("client_id", client.ID()), zap.Error(err))
			}
			break
		}

		handleClientMessage(message, client, controller)
	}
}

// handleClientMessage applies one client message to the controller. Input
// that does not decode is answered with an error message and otherwise ignored.
func handleClientMessage(message []byte, client *ws.Client, controller *gesture.Controller) {
	in, err := ws.DecodeInbound(message)
	if err != nil {
		replyError(client, "", "bad_request", "Message is not valid JSON")
		return
	}

	switch in.Type {
	case ws.TypePing:
		client.Reply(ws.NewMessage(ws.TypePong, nil))

	case ws.TypeDragStart:
		var p ws.DragStartPayload
		if !decodePayload(in, &p, client) {
			return
		}
		controller.DragStart(string(p.Data))

	case ws.TypeDragOver:
		var p ws.CellPayload
		if !decodePayload(in, &p, client) {
			return
		}
		accept := p.Cell != nil && controller.DragOver(*p.Cell)
		client.Reply(ws.NewMessage(ws.TypeDragOverAck, ws.DragOverAckPayload{Accept: accept}))

	case ws.TypeDrop:
		var p ws.CellPayload
		if !decodePayload(in, &p, client) {
			return
		}
		controller.Drop(p.Cell)

	case ws.TypeDragEnd:
		controller.DragEnd()

	case ws.TypeResizeStart:
		var p ws.ResizeStartPayload
		if !decodePayload(in, &p, client) {
			return
		}
		controller.BeginResize(p.EventID, p.ClientY)

	case ws.TypePointerMove:
		var p ws.PointerPayload
		if !decodePayload(in, &p, client) {
			return
		}
		controller.PointerMove(p.ClientY)

	case ws.TypePointerUp:
		var p ws.PointerPayload
		if !decodePayload(in, &p, client) {
			return
		}
		controller.PointerUp(p.ClientY)

	default:
		replyError(client, string(in.Type), "unknown_type", "Unknown message type")
	}
}

func decodePayload(in ws.Inbound, v any, client *ws.Client) bool {
	if len(in.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(in.Payload, v); err != nil {
		replyError(client, string(in.Type), "bad_request", "Invalid payload")
		return false
	}
	return true
}

func replyError(client *ws.Client, originalType, code, message string) {
	zap.L().Debug("rejected client message",
		zap.String("client_id", client.ID()), zap.String("type", originalType), zap.String("code", code))
	client.Reply(ws.NewMessage(ws.TypeError, ws.ErrorPayload{
		Code:         code,
		Message:      message,
		OriginalType: originalType,
	}))
}
