package realtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/lifecycle"
	"github.com/jhoicas/localmart-api/internal/infrastructure/realtime"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeSessions map[string]*entity.User

func (f fakeSessions) ResolveSession(_ context.Context, token string) (*entity.User, error) {
	u, ok := f[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

// fakeRooms permite order-* a todos y couriers solo a repartidores.
type fakeRooms struct{}

func (fakeRooms) CanJoinRoom(_ context.Context, actor lifecycle.Actor, room string) error {
	switch {
	case room == ordering.RoomCouriers && actor.Role == entity.RoleCourier:
		return nil
	case strings.HasPrefix(room, "order-"):
		return nil
	case room == ordering.RoomCouriers:
		return domain.ErrForbidden
	}
	return domain.NewValidationError("room", "sala desconocida")
}

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*realtime.Hub, *httptest.Server) {
	t.Helper()
	hub := realtime.NewHub(zerolog.Nop(), nil)
	sessions := fakeSessions{
		"tok-customer": {ID: "c1", Role: entity.RoleCustomer, Status: entity.UserActive},
		"tok-courier":  {ID: "k1", Role: entity.RoleCourier, Status: entity.UserActive},
		"tok-pending":  {ID: "k2", Role: entity.RoleCourier, Status: entity.UserPending},
	}
	srv := httptest.NewServer(realtime.NewServer(hub, sessions, fakeRooms{}, nil, zerolog.Nop()).Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return websocket.DefaultDialer.Dial(url, nil)
}

func mustDial(t *testing.T, hub *realtime.Hub, srv *httptest.Server, token, userID string) *websocket.Conn {
	t.Helper()
	conn, _, err := dial(t, srv, token)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return hub.RoomSize(ordering.RoomUser(userID)) == 1 },
		2*time.Second, 10*time.Millisecond, "el socket debe unirse a su sala de usuario")
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f wsFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func join(t *testing.T, conn *websocket.Conn, room string) wsFrame {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "join", "room": room}))
	return readFrame(t, conn)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conexión
// ──────────────────────────────────────────────────────────────────────────────

func TestServer_SinToken_Retorna401(t *testing.T) {
	_, srv := newTestServer(t)
	_, resp, err := dial(t, srv, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_TokenInvalido_Retorna401(t *testing.T) {
	_, srv := newTestServer(t)
	_, resp, err := dial(t, srv, "otro")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_CuentaPendiente_Retorna403(t *testing.T) {
	_, srv := newTestServer(t)
	_, resp, err := dial(t, srv, "tok-pending")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salas y entrega
// ──────────────────────────────────────────────────────────────────────────────

func TestHub_EntregaEnSalaDeUsuario(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := mustDial(t, hub, srv, "tok-customer", "c1")

	hub.Notify(context.Background(), ordering.EventStatusUpdated,
		ordering.StatusUpdated{OrderID: "o1", Status: "accepted"}, ordering.RoomUser("c1"))

	f := readFrame(t, conn)
	assert.Equal(t, ordering.EventStatusUpdated, f.Event)
	assert.JSONEq(t, `{"orderId":"o1","status":"accepted"}`, string(f.Data))
}

func TestHub_JoinSalaDePedido_RecibeUnaSolaVez(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := mustDial(t, hub, srv, "tok-customer", "c1")

	f := join(t, conn, "order-o1")
	require.Equal(t, "joined", f.Event)
	assert.Equal(t, 1, hub.RoomSize("order-o1"))

	// mismo cliente en order-o1 y user-c1: un solo frame
	hub.Notify(context.Background(), ordering.EventStatusUpdated,
		ordering.StatusUpdated{OrderID: "o1", Status: "preparing"}, "order-o1", ordering.RoomUser("c1"))
	hub.Notify(context.Background(), ordering.EventStatusUpdated,
		ordering.StatusUpdated{OrderID: "o1", Status: "ready"}, "order-o1")

	first := readFrame(t, conn)
	second := readFrame(t, conn)
	assert.Contains(t, string(first.Data), "preparing")
	assert.Contains(t, string(second.Data), "ready")
}

func TestHub_SalaCouriers_SoloRepartidores(t *testing.T) {
	hub, srv := newTestServer(t)
	customer := mustDial(t, hub, srv, "tok-customer", "c1")
	courier := mustDial(t, hub, srv, "tok-courier", "k1")

	f := join(t, customer, ordering.RoomCouriers)
	assert.Equal(t, "error", f.Event)
	assert.Contains(t, string(f.Data), "FORBIDDEN")

	f = join(t, courier, ordering.RoomCouriers)
	assert.Equal(t, "joined", f.Event)
	assert.Equal(t, 1, hub.RoomSize(ordering.RoomCouriers))
}

func TestHub_SalaDesconocida_ErrorDeValidacion(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := mustDial(t, hub, srv, "tok-customer", "c1")

	f := join(t, conn, "lobby")
	assert.Equal(t, "error", f.Event)
	assert.Contains(t, string(f.Data), "VALIDATION")
}

func TestHub_Leave_DejaDeRecibir(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := mustDial(t, hub, srv, "tok-customer", "c1")

	require.Equal(t, "joined", join(t, conn, "order-o1").Event)
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "leave", "room": "order-o1"}))
	assert.Equal(t, "left", readFrame(t, conn).Event)
	assert.Equal(t, 0, hub.RoomSize("order-o1"))
}

func TestHub_DesconexionLimpiaSalas(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := mustDial(t, hub, srv, "tok-courier", "k1")
	require.Equal(t, "joined", join(t, conn, ordering.RoomCouriers).Event)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return hub.RoomSize(ordering.RoomCouriers) == 0 && hub.RoomSize(ordering.RoomUser("k1")) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_NotifySinSalasNoFalla(t *testing.T) {
	hub := realtime.NewHub(zerolog.Nop(), nil)
	assert.NotPanics(t, func() {
		hub.Notify(context.Background(), ordering.EventNewOrder, map[string]string{"orderId": "o1"})
		hub.Notify(context.Background(), ordering.EventNewOrder, map[string]string{"orderId": "o1"}, "order-o1")
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Redis (integración; requiere REDIS_ADDR)
// ──────────────────────────────────────────────────────────────────────────────

func TestRedisBridge_EntregaEnHubLocal(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no configurado")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	hub, srv := newTestServer(t)
	bridge := realtime.NewRedisBridge(client, "localmart:test:"+t.Name(), hub, zerolog.Nop())
	if err := bridge.Ping(context.Background()); err != nil {
		t.Skipf("redis no disponible: %v", err)
	}
	hub.SetPublisher(bridge)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = bridge.Run(ctx) }()

	conn := mustDial(t, hub, srv, "tok-customer", "c1")
	frames := make(chan wsFrame, 16)
	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			var f wsFrame
			if err := conn.ReadJSON(&f); err != nil {
				close(frames)
				return
			}
			frames <- f
		}
	}()

	// la suscripción es asíncrona: publicar hasta que el primer frame llegue
	var got wsFrame
	require.Eventually(t, func() bool {
		hub.Notify(context.Background(), ordering.EventOrderAssigned,
			ordering.Assigned{OrderID: "o1", CourierID: "k1"}, ordering.RoomUser("c1"))
		select {
		case f, ok := <-frames:
			got = f
			return ok
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, ordering.EventOrderAssigned, got.Event)
	assert.JSONEq(t, `{"orderId":"o1","courierId":"k1"}`, string(got.Data))
}
