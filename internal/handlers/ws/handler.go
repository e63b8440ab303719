// Package ws serves game sessions to the browser over a websocket. Each
// connection drives one session: JSON command frames in, state frames out.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/orchestrators/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

// HandlerConfig holds dependencies for the websocket handler
type HandlerConfig struct {
	GameService game.Service

	// AllowedOrigins restricts browser origins. Empty allows any.
	AllowedOrigins []string
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.GameService == nil {
		return errors.InvalidArgument("game service is required")
	}
	return nil
}

// Handler upgrades browser connections and binds them to sessions
type Handler struct {
	gameService game.Service
	upgrader    websocket.Upgrader
}

// NewHandler creates a new websocket handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}

	return &Handler{
		gameService: cfg.GameService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				return origins[r.Header.Get("Origin")]
			},
		},
	}, nil
}

// Register mounts the handler's routes
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/healthz", h.Healthz)
}

// Healthz reports liveness
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeHTTPError(w http.ResponseWriter, err error) {
	http.Error(w, errors.GetMessage(err), errors.GetCode(err).HTTPStatus())
}

// ServeWS attaches to ?session=<id>, or starts a new session owned by
// ?owner= when no session is given.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	sessionID := query.Get("session")
	var first Frame
	if sessionID == "" {
		out, err := h.gameService.Start(ctx, &game.StartInput{Owner: query.Get("owner")})
		if err != nil {
			writeHTTPError(w, err)
			return
		}
		sessionID = out.SessionID
		first = stateFrame(sessionID, out.State)
	} else {
		out, err := h.gameService.Get(ctx, &game.GetInput{SessionID: sessionID})
		if err != nil {
			writeHTTPError(w, err)
			return
		}
		first = stateFrame(sessionID, out.State)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade failed",
			"session_id", sessionID,
			"error", err.Error())
		return
	}

	slog.InfoContext(ctx, "client connected",
		"session_id", sessionID,
		"remote", r.RemoteAddr)

	c := newClient(conn, h.gameService, sessionID)
	c.send <- first
	c.run(ctx)

	slog.InfoContext(ctx, "client disconnected", "session_id", sessionID)
}
