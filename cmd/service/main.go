package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/groupgate/internal/access"
	aclmem "github.com/dropDatabas3/groupgate/internal/access/memory"
	aclpg "github.com/dropDatabas3/groupgate/internal/access/pg"
	"github.com/dropDatabas3/groupgate/internal/cache"
	cachemem "github.com/dropDatabas3/groupgate/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/groupgate/internal/cache/redis"
	"github.com/dropDatabas3/groupgate/internal/config"
	"github.com/dropDatabas3/groupgate/internal/http/handlers"
	"github.com/dropDatabas3/groupgate/internal/http/router"
	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/identity/remote"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
	"github.com/dropDatabas3/groupgate/internal/scope"
)

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	// .env es opcional; en prod la config viene del archivo + env real
	_ = godotenv.Load()

	cfgPath := flag.String("config", getenv("GROUPGATE_CONFIG", "config.yaml"), "ruta del config YAML")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       getenv("LOG_LEVEL", cfg.Log.Level),
		ServiceName: "groupgate",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	// ───────── cache de directorio ─────────
	var dirCache cache.Cache
	switch cfg.Cache.Kind {
	case "redis":
		dirCache = cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
	default:
		dirCache = cachemem.New(config.Duration(cfg.Cache.Memory.DefaultTTL))
	}

	// ───────── servicio de identidad ─────────
	var (
		verifier identity.Verifier
		dir      identity.Directory
		mode     = scope.AuthDisabled
		pingers  = map[string]handlers.Pinger{}
	)
	if cfg.Identity.Enabled {
		client := remote.New(remote.Config{
			BaseURL:      cfg.Identity.BaseURL,
			Issuer:       cfg.Identity.Issuer,
			Timeout:      config.Duration(cfg.Identity.Timeout),
			DirectoryTTL: config.Duration(cfg.Identity.DirectoryTTL),
			JWKSTTL:      config.Duration(cfg.Identity.JWKSTTL),
			Cache:        dirCache,
		})
		verifier = client
		dir = client
		mode = scope.AuthEnabled
		pingers["identity"] = client
	} else {
		log.Warn("autenticación DESHABILITADA: las escrituras anónimas se atribuyen a public")
	}

	// ───────── ACL store ─────────
	var store access.Store
	switch cfg.ACL.Driver {
	case "none":
		// sin store: pertenencia simple con acceso total una vez dentro
	case "memory":
		s, err := aclmem.LoadFile(cfg.ACL.SeedFile)
		if err != nil {
			log.Fatal("cargando seed de ACL", logger.Err(err))
		}
		store = s
	case "postgres":
		pcfg, err := pgxpool.ParseConfig(cfg.ACL.Postgres.DSN)
		if err != nil {
			log.Fatal("dsn de postgres inválido", logger.Err(err))
		}
		if cfg.ACL.Postgres.MaxConns > 0 {
			pcfg.MaxConns = int32(cfg.ACL.Postgres.MaxConns)
		}
		if cfg.ACL.Postgres.ConnMaxLifetime != "" {
			pcfg.MaxConnLifetime = config.Duration(cfg.ACL.Postgres.ConnMaxLifetime)
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), pcfg)
		if err != nil {
			log.Fatal("conectando a postgres", logger.Err(err))
		}
		defer pool.Close()
		if cfg.ACL.Postgres.Migrate {
			if err := aclpg.Migrate(context.Background(), pool); err != nil {
				log.Fatal("migraciones de ACL", logger.Err(err))
			}
		}
		s := aclpg.New(pool)
		store = s
		pingers["acl_pg"] = s
	default:
		log.Fatal("acl.driver desconocido", logger.Any("driver", cfg.ACL.Driver))
	}

	// ───────── core ─────────
	scopeSvc := scope.New(verifier, mode)
	ctrl := access.New(verifier, store)

	handler := router.New(router.Deps{
		Scope:     scopeSvc,
		Access:    ctrl,
		Directory: dir,
		Pingers:   pingers,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("groupgate escuchando", logger.Any("addr", cfg.Server.Addr),
			logger.Any("auth_enabled", cfg.Identity.Enabled), logger.Any("acl_driver", cfg.ACL.Driver))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", logger.Err(err))
		}
	case sig := <-stop:
		log.Info("apagando", logger.Any("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout))
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown", logger.Err(err))
		}
	}
}
