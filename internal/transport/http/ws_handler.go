package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"logo-quiz-service/internal/app"
)

const wsWriteWait = 10 * time.Second

// WSHandler streams leaderboard snapshots to connected clients.
type WSHandler struct {
	service  *app.GameService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log *zap.Logger, checkOrigin func(r *http.Request) bool) *WSHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wsOutbox serialises writes: gorilla connections allow one concurrent writer.
type wsOutbox struct {
	send chan outboundMessage[any]
	done chan struct{}
}

func newWSOutbox() *wsOutbox {
	return &wsOutbox{send: make(chan outboundMessage[any], 16), done: make(chan struct{})}
}

// push queues msg and reports false once the writer has stopped.
func (o *wsOutbox) push(msg outboundMessage[any]) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.send <- msg:
		return true
	case <-o.done:
		return false
	}
}

func (o *wsOutbox) run(conn *websocket.Conn, log *zap.Logger) {
	defer close(o.done)
	for msg := range o.send {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug("ws write error", zap.Error(err))
			return
		}
	}
}

// ServeWS upgrades the request, sends the current leaderboard and then every update
// published after a submission. Clients may send {"type":"refresh"} to get a fresh read.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(r.Context())
	if err != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "internal_error"}})
		return
	}
	defer cancel()

	out := newWSOutbox()
	closeSignals := make(chan struct{})
	updatesDone := make(chan struct{})
	go out.run(conn, h.log)

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out.send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-out.done:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	h.readLoop(r, conn, out)

	close(closeSignals)
	<-updatesDone
	close(out.send)
	<-out.done
}

// readLoop answers client messages until the peer goes away or the writer stops.
func (h *WSHandler) readLoop(r *http.Request, conn *websocket.Conn, out *wsOutbox) {
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		var reply outboundMessage[any]
		switch inbound.Type {
		case "refresh":
			lb, err := h.service.Leaderboard(r.Context())
			if err != nil {
				reply = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "internal_error"}}
				break
			}
			reply = outboundMessage[any]{Type: "leaderboard", Payload: lb}
		case "ping":
			reply = outboundMessage[any]{Type: "pong", Payload: struct{}{}}
		default:
			reply = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
		if !out.push(reply) {
			return
		}
	}
}
