// Package bootstrap assembles the application object graph.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"nutriscan-backend/internal/products"
	"nutriscan-backend/internal/scans"
	"nutriscan-backend/internal/services/health"
	"nutriscan-backend/internal/shared/config"
	"nutriscan-backend/internal/shared/metrics"
	"nutriscan-backend/internal/shared/server"
	"nutriscan-backend/internal/shared/storage/db"
	"nutriscan-backend/internal/shared/storage/object"
	localstore "nutriscan-backend/internal/shared/storage/object/local"
	"nutriscan-backend/internal/shared/telemetry"
	"nutriscan-backend/nutrition/analyzer"
	"nutriscan-backend/nutrition/healthmodel"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	StoreKind string
	Models    *healthmodel.Handle
	Redis     *redis.Client
	Archive   object.ObjectStore

	ScansRepo       scans.Repo
	ScansService    *scans.Service
	ScansHandler    *scans.Handler
	ProductsService *products.Service
	ProductsHandler *products.Handler
	HealthHandler   *health.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	app := &App{Config: cfg}

	if err := buildStore(ctx, app); err != nil {
		return nil, err
	}
	buildModels(app)
	buildRedis(app)

	if cfg.RawArchiveDir != "" {
		app.Archive = localstore.New(cfg.RawArchiveDir)
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		ScanHandler:    app.ScansHandler,
		ProductHandler: app.ProductsHandler,
		HealthHandler:  app.HealthHandler,
	})

	return app, nil
}

// buildStore selects the scan repository. Auto prefers Postgres when a
// DATABASE_URL is configured and falls back to SQLite, which needs no
// external service. Dev-like environments degrade to memory instead of
// failing startup.
func buildStore(ctx context.Context, app *App) error {
	cfg := app.Config

	kind := cfg.ScanStore
	if kind == "auto" {
		switch {
		case strings.TrimSpace(cfg.DatabaseURL) != "":
			kind = "postgres"
		case strings.TrimSpace(cfg.SQLitePath) != "":
			kind = "sqlite"
		default:
			kind = "memory"
		}
	}

	switch kind {
	case "postgres":
		return buildPostgres(ctx, app)
	case "sqlite":
		return buildSQLite(ctx, app)
	default:
		app.StoreKind = "memory"
		app.ScansRepo = scans.NewMemoryRepo()
		return nil
	}
}

func buildPostgres(ctx context.Context, app *App) error {
	cfg := app.Config
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required when SCAN_STORE=postgres")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("database connect failed; using in-memory scan store", map[string]any{"error": err.Error()})
			app.StoreKind = "memory"
			app.ScansRepo = scans.NewMemoryRepo()
			return nil
		}
		return err
	}

	if cfg.MigrateOnStart {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	app.DB = sqlDB
	app.StoreKind = "postgres"
	app.ScansRepo = &scans.PGRepo{DB: sqlDB}
	return nil
}

func buildSQLite(ctx context.Context, app *App) error {
	cfg := app.Config

	sqlDB, err := scans.OpenSQLite(cfg.SQLitePath)
	if err == nil {
		var repo *scans.SQLiteRepo
		repo, err = scans.NewSQLiteRepo(ctx, sqlDB)
		if err == nil {
			app.DB = sqlDB
			app.StoreKind = "sqlite"
			app.ScansRepo = repo
			return nil
		}
		_ = sqlDB.Close()
	}

	if isDevLike(cfg.Env) {
		telemetry.Warn("sqlite open failed; using in-memory scan store", map[string]any{"path": cfg.SQLitePath, "error": err.Error()})
		app.StoreKind = "memory"
		app.ScansRepo = scans.NewMemoryRepo()
		return nil
	}
	return err
}

// buildModels wires the scoring model handle and warms it. A failed
// warm load is not fatal: the handle retries per request and health
// reports degraded until a load succeeds.
func buildModels(app *App) {
	cfg := app.Config

	loader := healthmodel.LoadEmbedded
	if strings.TrimSpace(cfg.ModelPath) != "" {
		path := cfg.ModelPath
		want := cfg.ModelSHA256
		loader = func() (*healthmodel.Model, error) {
			model, err := healthmodel.Load(path)
			if err != nil {
				return nil, err
			}
			if err := model.VerifyDigest(want); err != nil {
				return nil, err
			}
			return model, nil
		}
	}

	app.Models = healthmodel.NewHandle(loader)

	_, err := app.Models.Get()
	metrics.SetModelLoaded(err == nil)
	if err != nil {
		telemetry.Warn("scoring model not ready", map[string]any{"error": err.Error()})
	}
}

// buildRedis connects the optional cache backend. An unreachable Redis
// degrades to cacheless operation rather than failing startup.
func buildRedis(app *App) {
	addr := strings.TrimSpace(app.Config.RedisAddr)
	if addr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		telemetry.Warn("redis unreachable; caching disabled", map[string]any{"addr": addr, "error": err.Error()})
		_ = client.Close()
		return
	}
	app.Redis = client
}

func buildServices(app *App) {
	cfg := app.Config

	var scanCache scans.Cache
	var productCache products.Cache
	if app.Redis != nil {
		scanCache = scans.NewRedisCache(app.Redis, cfg.CacheTTL)
		productCache = products.NewRedisCache(app.Redis, cfg.CacheTTL)
	}

	scanSvc := &scans.Service{
		Repo:     app.ScansRepo,
		Analyzer: analyzer.New(app.Models),
		Cache:    scanCache,
		Archive:  app.Archive,
	}

	productSvc := &products.Service{
		Client: products.NewClient(cfg.OFFBaseURL, cfg.OFFTimeout),
		Scans:  scanSvc,
		Cache:  productCache,
	}

	app.ScansService = scanSvc
	app.ScansHandler = scans.NewHandler(scanSvc)
	app.ProductsService = productSvc
	app.ProductsHandler = products.NewHandler(productSvc)
	app.HealthHandler = health.NewHandler(health.NewService(app.StoreKind, app.Models))
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
