package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/0x5c-0x200f/asterraIO-assignment/config"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/container"
	pginfra "github.com/0x5c-0x200f/asterraIO-assignment/internal/infrastructure/postgres"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/infrastructure/secrets"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/interface/middleware"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/router"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/ws"
	"github.com/0x5c-0x200f/asterraIO-assignment/pkg/helpers"
	"github.com/0x5c-0x200f/asterraIO-assignment/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Resolve database credentials: secret store when configured, env DSN
	// otherwise. Resolution happens once; failure is fatal to startup.
	dsn, err := resolveDSN(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to resolve database credentials: %v", err)
	}

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, dsn, pginfra.PoolConfig{
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
		IdleTimeout: cfg.DBIdleTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(dsn, cfg.MigrationsDir, logger); err != nil && !errors.Is(migrate.ErrNoChange, err) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis (rate limiting + aggregate list cache)
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Socket hub
	hub := ws.NewHub(logger)

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetHub(hub)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	// Static client assets and the entry-document fallback
	r.StaticFile("/app.js", filepath.Join(cfg.StaticDir, "app.js"))
	r.StaticFile("/styles.css", filepath.Join(cfg.StaticDir, "styles.css"))
	r.NoRoute(func(c *gin.Context) {
		c.File(filepath.Join(cfg.StaticDir, "index.html"))
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(http.ErrServerClosed, err) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	hub.Shutdown()
	logger.Info("server exited properly")
}

// resolveDSN prefers the secret store and falls back to the env-provided
// credentials for local development.
func resolveDSN(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.DBSecretID == "" {
		return cfg.PostgresDSN(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	creds, err := secrets.FetchDBCredentials(ctx, cfg.AWSRegion, cfg.DBSecretID)
	if err != nil {
		return "", err
	}
	return creds.DSN(cfg.DBSSLMode), nil
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(migrate.ErrNoChange, err) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
