package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/exam-countdown/internal/service"
	ws "github.com/stemsi/exam-countdown/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams countdown frames to classroom displays.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// CountdownStream godoc
// WS /ws/v1/countdown
// The first message is the latest frame (or "idle"); every tick follows.
func (h *WSHandler) CountdownStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	frames, unsubscribe := h.sessionService.Subscribe(streamBuffer)
	defer unsubscribe()

	wsLog := h.log.With().Str("remote_addr", conn.RemoteAddr().String()).Logger()
	wsLog.Info().Msg("Display connected")

	if err := h.writeSnapshot(conn); err != nil {
		wsLog.Debug().Err(err).Msg("Write snapshot failed")
		return
	}

	// gorilla/websocket allows one reader and one writer; the reader only
	// forwards actions so that every write happens on this goroutine.
	actions := make(chan ws.Action)
	readerDone := make(chan struct{})
	writerDone := make(chan struct{})
	defer close(writerDone)
	go func() {
		defer close(readerDone)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-writerDone:
				return
			}
		}
	}()

	for {
		select {
		case <-readerDone:
			return
		case frame, ok := <-frames:
			if !ok {
				ws.Close(conn, "server shutting down")
				return
			}
			if err := ws.WriteTyped(conn, ws.TickResponse{Event: ws.EventTick, Frame: frame}); err != nil {
				wsLog.Debug().Err(err).Msg("Write frame failed")
				return
			}
		case action := <-actions:
			if err := h.handleAction(conn, action); err != nil {
				wsLog.Debug().Err(err).Msg("Write reply failed")
				return
			}
		}
	}
}

func (h *WSHandler) handleAction(conn *websocket.Conn, action ws.Action) error {
	switch action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
	case ws.ActionSnapshot:
		return h.writeSnapshot(conn)
	default:
		h.log.Warn().Str("action", string(action)).Msg("Unknown action")
		return ws.WriteError(conn, "unknown action: "+string(action))
	}
}

func (h *WSHandler) writeSnapshot(conn *websocket.Conn) error {
	view, err := h.sessionService.Current()
	if err != nil || view.Frame == nil {
		return ws.WriteTyped(conn, ws.IdleResponse{Event: ws.EventIdle})
	}
	return ws.WriteTyped(conn, ws.TickResponse{Event: ws.EventTick, Frame: *view.Frame})
}
