package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mossy-p/roomrelay/config"
	"github.com/mossy-p/roomrelay/internal/signaling"
)

// PlaceholderBody answers plain HTTP requests that are not WebSocket upgrades.
const PlaceholderBody = "Nothing to see here"

// Gateway accepts WebSocket sessions, gives each one an identity and pumps
// its frames between the socket and the signaling router.
type Gateway struct {
	registry *signaling.Registry
	router   *signaling.Router
	upgrader websocket.Upgrader
	newID    func() string

	readLimit  int64
	sendBuffer int
	writeWait  time.Duration
	pingPeriod time.Duration
	pongWait   time.Duration
}

func NewGateway(cfg *config.Config, registry *signaling.Registry) *Gateway {
	return &Gateway{
		registry: registry,
		router:   signaling.NewRouter(registry),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin checking is handled by middleware
				return true
			},
		},
		newID:      uuid.NewString,
		readLimit:  cfg.ReadLimit,
		sendBuffer: cfg.SendBuffer,
		writeWait:  cfg.WriteWait,
		pingPeriod: cfg.PingPeriod,
		pongWait:   cfg.PongWait,
	}
}

func (g *Gateway) keepalive() bool { return g.pongWait > 0 && g.pingPeriod > 0 }

// HandleSignaling upgrades WebSocket requests on any path. Anything else
// gets the placeholder body.
func (g *Gateway) HandleSignaling(c *gin.Context) {
	if !websocket.IsWebSocketUpgrade(c.Request) {
		c.String(http.StatusOK, PlaceholderBody)
		return
	}

	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("module", "handlers.websocket").Msg("failed to upgrade connection")
		return
	}

	conn := signaling.NewConnection(g.newID(), g.sendBuffer)
	if err := g.registry.Register(conn); err != nil {
		log.Error().Err(err).Str("module", "handlers.websocket").Str("uuid", conn.ID()).Msg("failed to register connection")
		_ = ws.Close()
		return
	}

	log.Info().Str("module", "handlers.websocket").Str("remote", c.ClientIP()).Str("uuid", conn.ID()).Msg("connection accepted")

	go g.writePump(ws, conn)
	go g.readPump(ws, conn)
}

// readPump owns all reads. Whatever ends it, the connection is removed from
// the registry, which also closes its outbound queue and so stops the
// write pump.
func (g *Gateway) readPump(ws *websocket.Conn, conn *signaling.Connection) {
	logger := log.With().Str("module", "handlers.websocket").Str("uuid", conn.ID()).Logger()
	defer func() {
		g.registry.Remove(conn)
		logger.Info().Str("room", conn.RoomID()).Msg("connection closed")
	}()

	ws.SetReadLimit(g.readLimit)
	if g.keepalive() {
		_ = ws.SetReadDeadline(time.Now().Add(g.pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(g.pongWait))
		})
	}

	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Warn().Err(err).Msg("read error")
			}
			return
		}

		if messageType == websocket.BinaryMessage {
			logger.Error().Err(signaling.ErrBinaryFrame).Msg("closing connection")
			return
		}

		if err := g.router.Handle(conn, data); err != nil {
			logger.Warn().Err(err).Bool("joined", conn.Joined()).Msg("protocol error, closing connection")
			return
		}
	}
}

// writePump owns all writes: queued frames in order, plus keepalive pings.
func (g *Gateway) writePump(ws *websocket.Conn, conn *signaling.Connection) {
	var ping <-chan time.Time
	if g.keepalive() {
		ticker := time.NewTicker(g.pingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer ws.Close()

	for {
		select {
		case message, ok := <-conn.Outbound():
			_ = ws.SetWriteDeadline(time.Now().Add(g.writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Debug().Err(err).Str("module", "handlers.websocket").Str("uuid", conn.ID()).Msg("failed to write message")
				}
				return
			}

		case <-ping:
			_ = ws.SetWriteDeadline(time.Now().Add(g.writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
