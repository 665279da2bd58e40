package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/account-service/internal/config"
	"github.com/iliyamo/account-service/internal/database"
	"github.com/iliyamo/account-service/internal/handler"
	"github.com/iliyamo/account-service/internal/logging"
	"github.com/iliyamo/account-service/internal/middleware"
	"github.com/iliyamo/account-service/internal/repository"
	"github.com/iliyamo/account-service/internal/router"
	"github.com/iliyamo/account-service/internal/service"
	"github.com/iliyamo/account-service/internal/utils"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	logs, err := logging.New(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logging: %v", err)
	}
	defer logs.Close()
	logger := logs.App
	if envErr != nil {
		logger.Info("no .env file found; relying on existing environment")
	}
	if cfg.UsingInsecureSecret() {
		logger.Warn("JWT_SECRET is not set; tokens are signed with the insecure development secret")
	}

	ctx := context.Background()
	store, db, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("init user store: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	users := store
	if cfg.Cache.Enabled {
		if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
			defer rdb.Close()
			users = repository.NewCachedUserRepo(store, rdb, cfg.Cache)
			logger.Infof("user cache enabled (redis %s, ttl %s)", cfg.Redis.Addr, cfg.Cache.TTL)
		} else {
			logger.Warnf("redis %s unreachable; user cache disabled", cfg.Redis.Addr)
		}
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	svc, err := service.NewAuthService(users, utils.NewHasher(cfg.BcryptCost), tokens)
	if err != nil {
		logger.Fatalf("init auth service: %v", err)
	}
	created, err := svc.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPass)
	if err != nil {
		logger.Fatalf("bootstrap admin: %v", err)
	}
	if created {
		logger.Infof("bootstrap admin account ready for %s", cfg.AdminEmail)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	router.Setup(e, cfg.CORSOrigins, logs.Errors)
	router.RegisterRoutes(e, users)
	router.RegisterAuth(e, cfg.APIPrefix,
		handler.NewAuthHandler(svc),
		handler.NewAdminHandler(svc),
		middleware.Authenticate(tokens, users),
	)

	addr := cfg.HTTPAddress()
	go func() {
		logger.Infof("listening on %s (env=%s, prefix=%s)", addr, cfg.Env, cfg.APIPrefix)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("graceful shutdown error: %v", err)
	}
}

// openStore picks the user store named by DATABASE_URL. SQL stores get their
// schema created on the way up; the returned *sql.DB is nil for memory://.
func openStore(ctx context.Context, databaseURL string) (repository.UserStore, *sql.DB, error) {
	target, err := database.Parse(databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if target.Dialect == database.Memory {
		return repository.NewMemoryRepo(), nil, nil
	}
	db, err := database.Open(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureSchema(ctx, db, target.Dialect); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repository.NewUserRepo(db, target.Dialect), db, nil
}
