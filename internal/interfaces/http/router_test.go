package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/jhoicas/localmart-api/internal/application/approval"
	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/application/usecase"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/lifecycle"
	"github.com/jhoicas/localmart-api/internal/infrastructure/memory"
	"github.com/jhoicas/localmart-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/localmart-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), store, auth.JWTConfig{
		Secret: "router-test-secret", ExpMinutes: 60, Issuer: "localmart-test",
	}).WithHashCost(bcrypt.MinCost)
	decider := approval.NewApprovalUseCase(store)
	orderUC := ordering.NewOrderingUseCase(ordering.Deps{
		Orders:   store.Orders(),
		Products: store.Products(),
		Shops:    store.Shops(),
		Users:    store.Users(),
		Tx:       store,
		Receipts: pdf.NewReceiptGenerator("LocalMart", "₹", language.English),
		Fees:     ordering.Fees{Delivery: decimal.NewFromInt(40), Service: decimal.NewFromInt(5)},
		Logger:   zerolog.Nop(),
	})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		ShopUC:    usecase.NewShopUseCase(store.Shops(), store),
		ProductUC: usecase.NewProductUseCase(store.Products(), store.Shops()),
		OrderUC:   orderUC,
		AdminUC:   usecase.NewAdminUseCase(store.Admin(), store.Users(), store.Shops(), store.Approvals(), decider),
	})
	return app
}

// call ejecuta la petición y devuelve status y cuerpo crudo.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func errorCode(t *testing.T, raw []byte) string {
	return decode[dto.ErrorResponse](t, raw).Code
}

func register(t *testing.T, app *fiber.App, name, email, role string) dto.RegisterResponse {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: name, Email: email, Phone: "9000000000", Password: "secreto123", Role: role,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.RegisterResponse](t, raw)
}

func login(t *testing.T, app *fiber.App, email string) (int, []byte) {
	t.Helper()
	return call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "secreto123"})
}

func loginToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, raw := login(t, app, email)
	require.Equal(t, http.StatusOK, status, string(raw))
	return decode[dto.LoginResponse](t, raw).Token
}

// approveWhere aprueba la primera solicitud pendiente que cumpla match.
func approveWhere(t *testing.T, app *fiber.App, adminToken string, match func(dto.ApprovalResponse) bool) dto.ApprovalResponse {
	t.Helper()
	status, raw := call(t, app, http.MethodGet, "/api/admin/pending-approvals", adminToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	for _, a := range decode[[]dto.ApprovalResponse](t, raw) {
		if match(a) {
			status, raw := call(t, app, http.MethodPost, "/api/admin/approvals/"+a.ID+"/approve", adminToken, nil)
			require.Equal(t, http.StatusOK, status, string(raw))
			return decode[dto.ApprovalResponse](t, raw)
		}
	}
	t.Fatalf("no hay aprobación pendiente que coincida")
	return dto.ApprovalResponse{}
}

func byEmail(email string) func(dto.ApprovalResponse) bool {
	return func(a dto.ApprovalResponse) bool { return a.UserEmail != nil && *a.UserEmail == email }
}

// activeUser registra un tendero o repartidor, lo aprueba y devuelve su token.
func activeUser(t *testing.T, app *fiber.App, adminToken, name, email, role string) string {
	t.Helper()
	res := register(t, app, name, email, role)
	require.True(t, res.RequiresApproval)
	approveWhere(t, app, adminToken, byEmail(email))
	return loginToken(t, app, email)
}

type marketplace struct {
	app        *fiber.App
	admin      string
	shopkeeper string
	customer   string
	shopID     string
	productID  string
}

// openMarketplace deja una tienda aprobada con un producto de ₹50 y stock 10.
func openMarketplace(t *testing.T) marketplace {
	t.Helper()
	app := newTestServer(t)
	m := marketplace{app: app}
	m.admin = register(t, app, "Admin", "admin@localmart.test", entity.RoleAdmin).Token
	require.NotEmpty(t, m.admin)
	m.shopkeeper = activeUser(t, app, m.admin, "Tendero", "tendero@localmart.test", entity.RoleShopkeeper)

	status, raw := call(t, app, http.MethodPost, "/api/shop", m.shopkeeper, dto.CreateShopRequest{Name: "Kirana Ram", Address: "Calle 1"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	shop := decode[dto.ShopResponse](t, raw)
	assert.Equal(t, entity.ShopPending, shop.Status)
	m.shopID = shop.ID
	approveWhere(t, app, m.admin, func(a dto.ApprovalResponse) bool {
		return a.Type == entity.ApprovalShop && a.ShopID != nil && *a.ShopID == shop.ID
	})

	status, raw = call(t, app, http.MethodPost, "/api/products", m.shopkeeper, dto.CreateProductRequest{
		Name: "Arroz 1kg", Price: decimal.NewFromInt(50), Stock: 10, Category: "granos",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	m.productID = decode[dto.ProductResponse](t, raw).ID

	m.customer = register(t, app, "Cliente", "cliente@localmart.test", entity.RoleCustomer).Token
	return m
}

func (m marketplace) placeOrder(t *testing.T, qty int) dto.OrderResponse {
	t.Helper()
	status, raw := call(t, m.app, http.MethodPost, "/api/orders", m.customer, dto.PlaceOrderRequest{
		ShopID:          m.shopID,
		Items:           []dto.OrderItemRequest{{ProductID: m.productID, Quantity: qty}},
		DeliveryAddress: "Av. Siempre Viva 742",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.OrderResponse](t, raw)
}

func (m marketplace) setStatus(t *testing.T, token, orderID, target string) (int, []byte) {
	t.Helper()
	return call(t, m.app, http.MethodPatch, "/api/orders/"+orderID+"/status", token, dto.SetOrderStatusRequest{Status: target})
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_PedidoDe145_EntregadoPorElGanador(t *testing.T) {
	m := openMarketplace(t)
	courierA := activeUser(t, m.app, m.admin, "Repartidor A", "a@localmart.test", entity.RoleCourier)
	courierB := activeUser(t, m.app, m.admin, "Repartidor B", "b@localmart.test", entity.RoleCourier)

	order := m.placeOrder(t, 2)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(100)), order.Subtotal.String())
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(145)), order.TotalAmount.String())
	assert.Equal(t, lifecycle.StatusPending, order.Status)
	assert.Nil(t, order.CourierID)

	status, raw := call(t, m.app, http.MethodPost, "/api/orders/"+order.ID+"/accept", m.shopkeeper, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = m.setStatus(t, m.shopkeeper, order.ID, lifecycle.StatusPreparing)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = m.setStatus(t, m.shopkeeper, order.ID, lifecycle.StatusReady)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, m.app, http.MethodGet, "/api/orders/available", courierA, nil)
	require.Equal(t, http.StatusOK, status)
	available := decode[[]dto.OrderResponse](t, raw)
	require.Len(t, available, 1)
	assert.Equal(t, "Kirana Ram", available[0].ShopName)

	// los dos repartidores reclaman a la vez
	tokens := []string{courierA, courierB}
	statuses := make([]int, 2)
	bodies := make([][]byte, 2)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			statuses[i], bodies[i] = call(t, m.app, http.MethodPost, "/api/orders/"+order.ID+"/accept-delivery", tokens[i], nil)
		}(i)
	}
	close(start)
	wg.Wait()

	winner, loser := 0, 1
	if statuses[1] == http.StatusOK {
		winner, loser = 1, 0
	}
	require.Equal(t, http.StatusOK, statuses[winner], string(bodies[winner]))
	require.Equal(t, http.StatusConflict, statuses[loser], string(bodies[loser]))
	assert.Equal(t, "ORDER_ALREADY_CLAIMED", errorCode(t, bodies[loser]))

	status, raw = m.setStatus(t, tokens[winner], order.ID, lifecycle.StatusDelivered)
	require.Equal(t, http.StatusOK, status, string(raw))
	final := decode[dto.OrderResponse](t, raw)
	assert.Equal(t, lifecycle.StatusDelivered, final.Status)
	require.NotNil(t, final.CourierID)

	status, raw = call(t, m.app, http.MethodGet, "/api/orders", tokens[loser], nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.OrderResponse](t, raw))

	status, raw = call(t, m.app, http.MethodGet, "/api/orders", tokens[winner], nil)
	require.Equal(t, http.StatusOK, status)
	mine := decode[[]dto.OrderResponse](t, raw)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)
	assert.Equal(t, *final.CourierID, *mine[0].CourierID)
}

func TestPedidos_TransicionInvalida_Retorna409ConEstados(t *testing.T) {
	m := openMarketplace(t)
	order := m.placeOrder(t, 1)

	status, raw := m.setStatus(t, m.shopkeeper, order.ID, lifecycle.StatusReady)
	require.Equal(t, http.StatusConflict, status)
	body := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)
	assert.Equal(t, lifecycle.StatusPending, body.Current)
	assert.Equal(t, lifecycle.StatusReady, body.Attempted)
}

func TestPedidos_ClienteNoPuedeAceptar(t *testing.T) {
	m := openMarketplace(t)
	order := m.placeOrder(t, 1)

	status, raw := call(t, m.app, http.MethodPost, "/api/orders/"+order.ID+"/accept", m.customer, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))
}

func TestPedidos_CancelarDevuelveStockYLuegoEsTerminal(t *testing.T) {
	m := openMarketplace(t)
	order := m.placeOrder(t, 3)

	status, raw := call(t, m.app, http.MethodGet, "/api/shops/"+m.shopID+"/products/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 7, decode[[]dto.ProductResponse](t, raw)[0].Stock)

	status, raw = call(t, m.app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", m.customer, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, lifecycle.StatusCancelled, decode[dto.OrderResponse](t, raw).Status)

	status, raw = call(t, m.app, http.MethodGet, "/api/shops/"+m.shopID+"/products/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10, decode[[]dto.ProductResponse](t, raw)[0].Stock)

	status, _ = call(t, m.app, http.MethodPost, "/api/orders/"+order.ID+"/accept", m.shopkeeper, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestPedidos_StockInsuficiente(t *testing.T) {
	m := openMarketplace(t)
	status, raw := call(t, m.app, http.MethodPost, "/api/orders", m.customer, dto.PlaceOrderRequest{
		ShopID:          m.shopID,
		Items:           []dto.OrderItemRequest{{ProductID: m.productID, Quantity: 11}},
		DeliveryAddress: "Av. Siempre Viva 742",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))
}

func TestPedidos_ComprobantePDF(t *testing.T) {
	m := openMarketplace(t)
	order := m.placeOrder(t, 2)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+m.customer)
	resp, err := m.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	other := register(t, m.app, "Otro", "otro@localmart.test", entity.RoleCustomer).Token
	status, body := call(t, m.app, http.MethodGet, "/api/orders/"+order.ID+"/receipt", other, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad y aprobaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistro_RepartidorApareceEnAprobacionesPendientes(t *testing.T) {
	app := newTestServer(t)
	admin := register(t, app, "Admin", "admin@localmart.test", entity.RoleAdmin).Token

	res := register(t, app, "Repartidor", "moto@localmart.test", entity.RoleCourier)
	assert.True(t, res.RequiresApproval)
	assert.Empty(t, res.Token)

	status, raw := call(t, app, http.MethodGet, "/api/admin/pending-approvals", admin, nil)
	require.Equal(t, http.StatusOK, status)
	pending := decode[[]dto.ApprovalResponse](t, raw)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.ApprovalUserRegistration, pending[0].Type)
	require.NotNil(t, pending[0].UserRole)
	assert.Equal(t, entity.RoleCourier, *pending[0].UserRole)
	require.NotNil(t, pending[0].UserEmail)
	assert.Equal(t, "moto@localmart.test", *pending[0].UserEmail)
}

func TestLogin_CuentaPendiente_Retorna403(t *testing.T) {
	app := newTestServer(t)
	register(t, app, "Tendero", "tendero@localmart.test", entity.RoleShopkeeper)

	status, raw := login(t, app, "tendero@localmart.test")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "ACCOUNT_PENDING", errorCode(t, raw))
}

func TestLogin_PasswordIncorrecto_Retorna401(t *testing.T) {
	app := newTestServer(t)
	register(t, app, "Cliente", "cliente@localmart.test", entity.RoleCustomer)

	status, raw := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "cliente@localmart.test", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, raw))
}

func TestAprobacion_CascadaYSegundaDecision(t *testing.T) {
	app := newTestServer(t)
	admin := register(t, app, "Admin", "admin@localmart.test", entity.RoleAdmin).Token
	register(t, app, "Repartidor", "moto@localmart.test", entity.RoleCourier)

	decided := approveWhere(t, app, admin, byEmail("moto@localmart.test"))
	assert.Equal(t, entity.ApprovalApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)

	status, _ := login(t, app, "moto@localmart.test")
	assert.Equal(t, http.StatusOK, status)

	status, raw := call(t, app, http.MethodPost, "/api/admin/approvals/"+decided.ID+"/reject", admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_DECIDED", errorCode(t, raw))

	status, raw = call(t, app, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[dto.AdminStatsResponse](t, raw)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 0, stats.PendingApprovals)
	assert.EqualValues(t, 0, stats.PendingUsers)
}

func TestAprobacion_Rechazo_BloqueaLogin(t *testing.T) {
	app := newTestServer(t)
	admin := register(t, app, "Admin", "admin@localmart.test", entity.RoleAdmin).Token
	register(t, app, "Tendero", "tendero@localmart.test", entity.RoleShopkeeper)

	status, raw := call(t, app, http.MethodGet, "/api/admin/pending-approvals", admin, nil)
	require.Equal(t, http.StatusOK, status)
	pending := decode[[]dto.ApprovalResponse](t, raw)
	require.Len(t, pending, 1)

	status, _ = call(t, app, http.MethodPost, "/api/admin/approvals/"+pending[0].ID+"/reject", admin, map[string]string{"notes": "documentos incompletos"})
	require.Equal(t, http.StatusOK, status)

	status, raw = login(t, app, "tendero@localmart.test")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "ACCOUNT_REJECTED", errorCode(t, raw))
}

func TestAdmin_AccionDesconocida_Retorna400(t *testing.T) {
	app := newTestServer(t)
	admin := register(t, app, "Admin", "admin@localmart.test", entity.RoleAdmin).Token
	register(t, app, "Repartidor", "moto@localmart.test", entity.RoleCourier)

	status, raw := call(t, app, http.MethodGet, "/api/admin/pending-approvals", admin, nil)
	require.Equal(t, http.StatusOK, status)
	pending := decode[[]dto.ApprovalResponse](t, raw)
	require.Len(t, pending, 1)

	status, raw = call(t, app, http.MethodPost, "/api/admin/approvals/"+pending[0].ID+"/maybe", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

func TestAdmin_RutasSoloParaAdmin(t *testing.T) {
	m := openMarketplace(t)
	status, raw := call(t, m.app, http.MethodGet, "/api/admin/stats", m.customer, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Identificadores mal formados
// ──────────────────────────────────────────────────────────────────────────────

func TestIDs_NoUUIDEnLaRuta_Retorna404(t *testing.T) {
	m := openMarketplace(t)
	cases := []struct {
		method, path, token string
		body                any
	}{
		{http.MethodGet, "/api/orders/abc", m.customer, nil},
		{http.MethodGet, "/api/orders/abc/receipt", m.customer, nil},
		{http.MethodPost, "/api/orders/abc/accept", m.shopkeeper, nil},
		{http.MethodPost, "/api/orders/abc/cancel", m.customer, nil},
		{http.MethodPatch, "/api/orders/abc/status", m.shopkeeper, dto.SetOrderStatusRequest{Status: "preparing"}},
		{http.MethodPut, "/api/products/abc", m.shopkeeper, dto.UpdateProductRequest{}},
		{http.MethodDelete, "/api/products/abc", m.shopkeeper, nil},
		{http.MethodGet, "/api/shops/abc/products/public", "", nil},
		{http.MethodPost, "/api/admin/approvals/abc/approve", m.admin, nil},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			status, raw := call(t, m.app, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, http.StatusNotFound, status, string(raw))
			assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
		})
	}
}

func TestIDs_NoUUIDEnElPedido_Retorna400ConCampo(t *testing.T) {
	m := openMarketplace(t)

	status, raw := call(t, m.app, http.MethodPost, "/api/orders", m.customer, dto.PlaceOrderRequest{
		ShopID:          "abc",
		Items:           []dto.OrderItemRequest{{ProductID: m.productID, Quantity: 1}},
		DeliveryAddress: "Calle 2",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	res := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", res.Code)
	assert.Equal(t, "shop_id", res.Field)

	status, raw = call(t, m.app, http.MethodPost, "/api/orders", m.customer, dto.PlaceOrderRequest{
		ShopID:          m.shopID,
		Items:           []dto.OrderItemRequest{{ProductID: m.productID, Quantity: 1}, {ProductID: "1; drop", Quantity: 1}},
		DeliveryAddress: "Calle 2",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "items[1].product_id", decode[dto.ErrorResponse](t, raw).Field)
}

func TestPedidos_CantidadSobreElTope_Retorna400(t *testing.T) {
	m := openMarketplace(t)
	status, raw := call(t, m.app, http.MethodPost, "/api/orders", m.customer, dto.PlaceOrderRequest{
		ShopID:          m.shopID,
		Items:           []dto.OrderItemRequest{{ProductID: m.productID, Quantity: 9000}, {ProductID: m.productID, Quantity: 9000}},
		DeliveryAddress: "Calle 2",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	res := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", res.Code)
	assert.Equal(t, "items[1].quantity", res.Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogo_InactivoNoApareceEnListadoPublico(t *testing.T) {
	m := openMarketplace(t)

	status, raw := call(t, m.app, http.MethodPatch, "/api/products/"+m.productID+"/status", m.shopkeeper, dto.SetProductStatusRequest{Status: "inactive"})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, m.app, http.MethodGet, "/api/shops/"+m.shopID+"/products/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.ProductResponse](t, raw))

	status, raw = call(t, m.app, http.MethodGet, "/api/shops/"+m.shopID+"/products", m.shopkeeper, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.ProductResponse](t, raw), 1)

	status, _ = call(t, m.app, http.MethodGet, "/api/shops/"+m.shopID+"/products", m.customer, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCatalogo_TiendasCercanasSoloAprobadas(t *testing.T) {
	m := openMarketplace(t)
	status, raw := call(t, m.app, http.MethodGet, "/api/shops/nearby?lat=12.97&lng=77.59&radius=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	shops := decode[[]dto.ShopResponse](t, raw)
	require.Len(t, shops, 1)
	assert.Equal(t, m.shopID, shops[0].ID)
}

func TestCatalogo_MiTiendaSinTienda_Retorna404(t *testing.T) {
	app := newTestServer(t)
	admin := register(t, app, "Admin", "admin@localmart.test", entity.RoleAdmin).Token
	shopkeeper := activeUser(t, app, admin, "Tendero", "tendero@localmart.test", entity.RoleShopkeeper)

	status, raw := call(t, app, http.MethodGet, "/api/shop/my-shop", shopkeeper, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestRutaDesconocida_Retorna404JSON(t *testing.T) {
	app := newTestServer(t)
	status, raw := call(t, app, http.MethodGet, "/api/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}
