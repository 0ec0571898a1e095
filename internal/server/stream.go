package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/tracking"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StreamHandler classifies hands sent over a WebSocket. Each inbound text
// message carries either a sample or a landmark frame; each gets exactly one
// reply. Recognized poses dispatch their bound actions.
type StreamHandler struct {
	app *app.App
	log *zap.Logger
}

// NewStreamHandler creates a StreamHandler backed by a.
func NewStreamHandler(a *app.App, log *zap.Logger) *StreamHandler {
	log = logger.OrNop(log)
	return &StreamHandler{app: a, log: log}
}

type streamMessage struct {
	Sample *pose.HandSample `json:"sample"`
	Frame  *tracking.Frame  `json:"frame"`
}

type streamReply struct {
	Detections []app.Detection `json:"detections"`
	Error      string          `json:"error,omitempty"`
}

// ServeHTTP upgrades the connection and processes messages until the client
// disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("stream closed", zap.Error(err))
			}
			return
		}

		if err := conn.WriteJSON(h.handle(r, data)); err != nil {
			h.log.Debug("stream write failed", zap.Error(err))
			return
		}
	}
}

func (h *StreamHandler) handle(r *http.Request, data []byte) streamReply {
	var msg streamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return streamReply{Detections: []app.Detection{}, Error: "invalid message: " + err.Error()}
	}

	switch {
	case msg.Sample != nil && msg.Frame != nil:
		return streamReply{Detections: []app.Detection{}, Error: "message must carry sample or frame, not both"}
	case msg.Sample != nil:
		return streamReply{Detections: []app.Detection{h.app.Classify(r.Context(), msg.Sample)}}
	case msg.Frame != nil:
		return streamReply{Detections: h.app.ProcessFrame(r.Context(), *msg.Frame)}
	}
	return streamReply{Detections: []app.Detection{}, Error: "message must carry sample or frame"}
}
