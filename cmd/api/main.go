package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/lanchonete-api/docs"
	appanalytics "github.com/jhoicas/lanchonete-api/internal/application/analytics"
	"github.com/jhoicas/lanchonete-api/internal/application/inventory"
	"github.com/jhoicas/lanchonete-api/internal/application/ordering"
	"github.com/jhoicas/lanchonete-api/internal/application/realtime"
	"github.com/jhoicas/lanchonete-api/internal/application/usecase"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
	"github.com/jhoicas/lanchonete-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/lanchonete-api/internal/infrastructure/pdf"
	"github.com/jhoicas/lanchonete-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/lanchonete-api/internal/interfaces/http"
	"github.com/jhoicas/lanchonete-api/internal/interfaces/ws"
	"github.com/jhoicas/lanchonete-api/pkg/config"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

// stores repos y unidades atómicas del driver elegido.
type stores struct {
	menu         repository.MenuItemRepository
	orders       repository.OrderRepository
	stockLog     repository.StockLogRepository
	transactions repository.TransactionRepository
	inventoryTx  inventory.TxRunner
	orderTx      ordering.TxRunner
	pinger       httpRouter.Pinger
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	feed := realtime.NewFeed(log)

	var st stores
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		st = memoryStores(feed)
	default:
		st, err = postgresStores(ctx, cfg, feed, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer st.close()

	menuUC := usecase.NewMenuUseCase(st.menu)
	replenishUC := inventory.NewReplenishUseCase(st.inventoryTx, st.menu, st.stockLog)
	orderUC := ordering.NewOrderUseCase(st.orderTx, st.orders, feed, log)
	receiptUC := ordering.NewReceiptUseCase(st.orders, infrapdf.NewReceiptGenerator(), ordering.ReceiptInfo{
		StoreName: cfg.App.Name,
		Location:  cfg.App.Location(),
	})
	cashflowUC := usecase.NewCashflowUseCase(st.transactions, st.orders)

	realtime.RegisterStandardTopics(feed, realtime.Sources{
		MenuItems:    st.menu,
		Orders:       st.orders,
		Transactions: st.transactions,
		PublicMenu:   menuUC.PublicMenu,
	})

	// Caches de lectura alimentados por el feed; hasta el primer snapshot consultan el repo.
	ordersCache := realtime.NewCache(func(ctx context.Context) ([]*entity.Order, error) {
		return st.orders.List(ctx, repository.OrderFilter{})
	})
	publicMenuCache := realtime.NewCache(menuUC.PublicMenu)

	go feed.Run(ctx)
	if err := ordersCache.Follow(ctx, feed, realtime.TopicOrders); err != nil {
		log.Warn().Err(err).Msg("cache de pedidos sin feed")
	}
	if err := publicMenuCache.Follow(ctx, feed, realtime.TopicPublicMenu); err != nil {
		log.Warn().Err(err).Msg("cache del cardápio público sin feed")
	}

	dashboardUC := appanalytics.NewDashboardUseCase(ordersCache, cfg.App.Location())

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            log,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: docs.JSON(),
		Path:        "docs",
		Title:       "Lanchonete API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		MenuUC:      menuUC,
		ReplenishUC: replenishUC,
		OrderUC:     orderUC,
		ReceiptUC:   receiptUC,
		CashflowUC:  cashflowUC,
		DashboardUC: dashboardUC,
		PublicMenu:  publicMenuCache,
		WS:          ws.NewHandler(feed, log),
		StoreDriver: cfg.Store.Driver,
		Pinger:      st.pinger,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func memoryStores(feed *realtime.Feed) stores {
	store := memory.NewStore(memory.WithChangeFunc(feed.Notify))
	return stores{
		menu:         store.MenuItems(),
		orders:       store.Orders(),
		stockLog:     store.StockLog(),
		transactions: store.Transactions(),
		inventoryTx:  store,
		orderTx:      store,
		close:        func() {},
	}
}

// postgresStores abre el pool, aplica migraciones si corresponde y arranca el listener de NOTIFY.
func postgresStores(ctx context.Context, cfg *config.Config, feed *realtime.Feed, log *logger.Logger) (stores, error) {
	if cfg.DB.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
			return stores{}, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return stores{}, err
	}
	channel := cfg.Realtime.Channel
	txRunner := postgres.NewTxRunner(pool, channel)

	go postgres.NewListener(pool, channel, feed, log).Run(ctx)

	return stores{
		menu:         postgres.NewMenuItemRepository(pool, channel),
		orders:       postgres.NewOrderRepository(pool, channel),
		stockLog:     postgres.NewStockLogRepository(pool, channel),
		transactions: postgres.NewTransactionRepository(pool, channel),
		inventoryTx:  txRunner,
		orderTx:      txRunner,
		pinger:       pool,
		close:        pool.Close,
	}, nil
}
