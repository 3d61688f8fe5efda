package realtime

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/lifecycle"
)

// SessionResolver resuelve el token de la conexión (auth.AuthUseCase).
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
}

// RoomAuthorizer decide si el usuario puede entrar a una sala (ordering.OrderingUseCase).
type RoomAuthorizer interface {
	CanJoinRoom(ctx context.Context, actor lifecycle.Actor, room string) error
}

// Server endpoint websocket del relay: GET /ws?token=<jwt>.
type Server struct {
	hub      *Hub
	sessions SessionResolver
	rooms    RoomAuthorizer
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewServer allowedOrigins vacío acepta cualquier origen.
func NewServer(hub *Hub, sessions SessionResolver, rooms RoomAuthorizer, allowedOrigins []string, log zerolog.Logger) *Server {
	s := &Server{
		hub:      hub,
		sessions: sessions,
		rooms:    rooms,
		log:      log.With().Str("component", "realtime").Logger(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(allowedOrigins) == 0 || origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
	return s
}

// Handler mux con /ws y /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token == "" {
		http.Error(w, "token requerido", http.StatusUnauthorized)
		return
	}
	user, err := s.sessions.ResolveSession(r.Context(), token)
	if err != nil {
		http.Error(w, "token inválido o expirado", http.StatusUnauthorized)
		return
	}
	if !user.IsActive() {
		http.Error(w, "cuenta no activa", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade falló")
		return
	}
	c := newClient(conn, user.ID, user.Role)
	s.hub.register(c)
	s.hub.Join(c, ordering.RoomUser(user.ID))
	s.log.Debug().Str("user_id", user.ID).Str("role", user.Role).Msg("socket conectado")

	go c.writePump()
	go func() {
		defer s.hub.unregister(c)
		actor := lifecycle.Actor{UserID: user.ID, Role: user.Role}
		c.readPump(func(cmd command) { s.handle(c, actor, cmd) })
	}()
}

func (s *Server) handle(c *Client, actor lifecycle.Actor, cmd command) {
	room := strings.TrimSpace(cmd.Room)
	switch cmd.Action {
	case "join", "join-room":
		// contexto propio: la petición de upgrade ya terminó
		if err := s.rooms.CanJoinRoom(context.Background(), actor, room); err != nil {
			s.hub.send(c, "error", errorFrame(room, err))
			return
		}
		s.hub.Join(c, room)
		s.hub.send(c, "joined", map[string]string{"room": room})
	case "leave":
		s.hub.Leave(c, room)
		s.hub.send(c, "left", map[string]string{"room": room})
	default:
		s.hub.send(c, "error", map[string]string{"code": "UNKNOWN_ACTION", "message": "acción desconocida"})
	}
}

func errorFrame(room string, err error) map[string]string {
	code, msg := "FORBIDDEN", "no autorizado para la sala"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		code, msg = "VALIDATION", "sala desconocida"
	case errors.Is(err, domain.ErrNotFound):
		code, msg = "NOT_FOUND", "la sala no existe"
	case errors.Is(err, domain.ErrForbidden):
	default:
		code, msg = "INTERNAL", "error interno"
	}
	return map[string]string{"code": code, "message": msg, "room": room}
}

// tokenFromRequest query ?token= o header Authorization: Bearer.
func tokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
