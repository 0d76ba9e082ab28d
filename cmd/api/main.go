package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
	"github.com/jhoicas/field-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/field-inventory/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/field-inventory/internal/infrastructure/redis"
	"github.com/jhoicas/field-inventory/internal/infrastructure/remote"
	httpRouter "github.com/jhoicas/field-inventory/internal/interfaces/http"
	"github.com/jhoicas/field-inventory/pkg/config"
	"github.com/jhoicas/field-inventory/pkg/logger"
)

// storage puertos de persistencia según STORE_DRIVER.
type storage struct {
	txRunner inventory.TxRunner
	lookups  repository.LookupRepository
	auditLog repository.TransactionRepository
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Inventory.StoreDriver == config.StoreDriverMemory {
		lookups, err := memory.LoadLookups(cfg.Inventory.LookupsFile)
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("STORE_DRIVER=memory: los datos no sobreviven al reinicio")
		store := memory.NewStore(lookups)
		return &storage{txRunner: store, lookups: store, auditLog: store.TransactionLog(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		txRunner: postgres.NewTxRunner(pool),
		lookups:  postgres.NewLookupRepository(pool),
		auditLog: postgres.NewTransactionRepository(pool),
		close:    pool.Close,
	}, nil
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
		Str("store", cfg.Inventory.StoreDriver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Tablas de referencia: Redis como caché delante de la fuente si está configurado.
	var lookups inventory.LookupProvider = store.lookups
	notifiers := inventory.Notifiers{inventory.NewLogNotifier(log.Component("refresh"))}
	routerDeps := httpRouter.RouterDeps{JWTSecret: cfg.JWT.Secret, Logger: log.Component("http")}
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()

		cache := infraredis.NewLookupCache(client, store.lookups, cfg.Redis.LookupCacheTTL, log.Component("lookup-cache"))
		lookups = cache
		routerDeps.LookupCache = cache

		redisNotifier := infraredis.NewNotifier(client, log.Component("refresh"))
		notifiers = append(notifiers, redisNotifier)
		subLog := log.Component("refresh-subscriber")
		go func() {
			err := redisNotifier.Subscribe(ctx, func(ev inventory.ChangeEvent) {
				subLog.Debug().Str("action", ev.Action).Ints64("inventory_ids", ev.InventoryIDs).Msg("refresco recibido")
			})
			if err != nil {
				subLog.Error().Err(err).Msg("suscripción al canal de refresco finalizada")
			}
		}()
	}

	deps := inventory.EngineDeps{
		TxRunner: store.txRunner,
		Lookups:  lookups,
		Recorder: inventory.NewRecorder(store.auditLog, log.Component("audit"), cfg.Inventory.AuditStrict),
		Notifier: notifiers,
		Logger:   log.Component("inventory"),
	}
	if cfg.Remote.Enabled() {
		deps.Remote = remote.NewClient(cfg.Remote)
		log.Info().Str("url", cfg.Remote.URL).Msg("ruta remota habilitada para Issue, Adjust y Receive")
	}
	engine := inventory.NewEngine(deps)

	if cfg.Inventory.IntegrityOnStart {
		checkIntegrity(ctx, engine, cfg.Inventory.IntegrityRepair, log.Component("integrity"))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Field Inventory API",
		}))
	}

	routerDeps.Engine = engine
	routerDeps.Lookups = lookups
	httpRouter.Router(app, routerDeps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// checkIntegrity busca firmas a granel duplicadas y, si repair, las fusiona. Nunca detiene el arranque.
func checkIntegrity(ctx context.Context, engine *inventory.Engine, repair bool, log zerolog.Logger) {
	find := engine.FindDuplicates
	if repair {
		find = engine.RepairDuplicates
	}
	report, err := find(ctx)
	if err != nil {
		log.Error().Err(err).Msg("verificación de integridad")
		return
	}
	if len(report.Groups) == 0 {
		log.Info().Msg("sin firmas duplicadas")
		return
	}
	for _, g := range report.Groups {
		log.Warn().Str("signature", g.Key).Int("records", len(g.Records)).Msg("firma duplicada")
	}
	if repair {
		log.Info().Int("repaired", len(report.Repaired)).Msg("firmas duplicadas fusionadas")
	}
}
