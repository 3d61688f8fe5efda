package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	"github.com/jhoicas/localmart-api/internal/application/approval"
	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/application/usecase"
	"github.com/jhoicas/localmart-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/localmart-api/internal/infrastructure/pdf"
	"github.com/jhoicas/localmart-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/localmart-api/internal/interfaces/http"
	"github.com/jhoicas/localmart-api/pkg/config"
	"github.com/jhoicas/localmart-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	m := metrics.New()

	// Relay: con Redis los eventos pasan por el canal compartido y vuelven a cada instancia
	hub := realtime.NewHub(log.Component("realtime"), m)
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		bridge := realtime.NewRedisBridge(rdb, cfg.Redis.Channel, hub, log.Component("redis"))
		if err := bridge.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		hub.SetPublisher(bridge)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("suscripción Redis finalizada")
			}
		}()
	}

	authUC := auth.NewAuthUseCase(store.users, store.identity, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	approvalUC := approval.NewApprovalUseCase(store.identity)
	orderUC := ordering.NewOrderingUseCase(ordering.Deps{
		Orders:   store.orders,
		Products: store.products,
		Shops:    store.shops,
		Users:    store.users,
		Tx:       store.ordering,
		Notifier: hub,
		Metrics:  m,
		Receipts: infrapdf.NewReceiptGenerator(cfg.App.Name, "₹", language.English),
		Fees:     ordering.Fees{Delivery: cfg.Order.DeliveryFee, Service: cfg.Order.ServiceFee},
		Logger:   log.Zerolog(),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(cfg.HTTP.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en /docs si el archivo generado existe
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "LocalMart API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	authLimiter := httpRouter.NewRateLimiter(cfg.AuthRate.PerSecond, cfg.AuthRate.Burst)
	go sweepLimiter(ctx, authLimiter)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ShopUC:      usecase.NewShopUseCase(store.shops, store.identity),
		ProductUC:   usecase.NewProductUseCase(store.products, store.shops),
		OrderUC:     orderUC,
		AdminUC:     usecase.NewAdminUseCase(store.admin, store.users, store.shops, store.approvals, approvalUC),
		AuthLimiter: authLimiter,
	})

	wsServer := &http.Server{
		Addr:              cfg.HTTP.WSAddr(),
		Handler:           realtime.NewServer(hub, authUC, orderUC, cfg.HTTP.AllowedOrigins, log.Zerolog()).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	go func() {
		log.Info().Str("addr", wsServer.Addr).Msg("relay websocket escuchando")
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("relay websocket finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidores...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del relay")
	}
	hub.Close()

	log.Info().Msg("aplicación detenida")
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

// sweepLimiter descarta periódicamente los buckets de IPs inactivas.
func sweepLimiter(ctx context.Context, rl *httpRouter.RateLimiter) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			rl.Cleanup(now)
		}
	}
}
