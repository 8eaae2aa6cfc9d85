// cmd/web/main.go
//
// Friendly URLs service – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (system-wide file → conf/.env fallback).
//
//  2. Load and validate configuration (YAML + env overlays, Vault
//     references resolved).
//
//  3. Start the rotating JSON logger (tees to console in a TTY).
//
//  4. Optionally open the board database and build the cached
//     board-config reader; without a DSN the static YAML values serve.
//
//  5. Optionally open the GeoIP database for request enrichment.
//
//  6. Assemble the chi router (rewrite endpoints, healthz, metrics) and
//     serve it with hardened timeouts until SIGINT/SIGTERM, then drain
//     in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rowanvale/friendlyurls/internal/boardconfig"
	"github.com/rowanvale/friendlyurls/internal/config"
	"github.com/rowanvale/friendlyurls/internal/database"
	"github.com/rowanvale/friendlyurls/internal/logger"
	"github.com/rowanvale/friendlyurls/internal/requestinfo"
	"github.com/rowanvale/friendlyurls/internal/server"
)

const serverEnvPath = "/usr/local/etc/friendlyurls/global.env"

// loadEnv prefers the system-wide env file; on dev it falls back to the
// repo-local dotenv that config.Load also reads.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Log.Dir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  Board config source (live DB or static fallback) ───────────
	//
	fallback := boardconfig.Values{
		MaxSlugLength:  cfg.Board.MaxSlugLength,
		UnicodifyLinks: cfg.Board.UnicodifyLinks,
	}

	boards := boardconfig.Static(fallback)
	if cfg.Database.DSN != "" {
		dsn := database.BuildDSN(cfg.Database.DSN, cfg.Database.Password)
		db, err := database.Open(dsn)
		if err != nil {
			logOut.Fatalw("connect board DB", "err", err)
		}
		defer db.Close()
		logOut.Infow("board DB online")

		boards = boardconfig.New(db, cfg.Board.TablePrefix, cfg.Board.ConfigTTL, fallback)
	} else {
		logOut.Infow("no board DB configured, using static board values",
			"max_slug_length", fallback.MaxSlugLength,
			"unicodify_links", fallback.UnicodifyLinks,
		)
	}

	//
	// ── 4.  GeoIP (optional) ────────────────────────────────────────────
	//
	if cfg.GeoIP.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
			logOut.Warnw("geoip disabled", "path", cfg.GeoIP.DBPath, "err", err)
		}
	}

	//
	// ── 5.  Router + hardened server ────────────────────────────────────
	//
	api := server.NewAPI(boards, cfg.Board.BaseURL)
	srv := server.New(cfg.HTTP.ListenAddr, server.NewRouter(api))

	errCh := make(chan error, 1)
	go func() {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	//
	// ── 6.  Graceful shutdown ───────────────────────────────────────────
	//
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logOut.Fatalw("http server", "err", err)
		}
	case sig := <-stop:
		zap.S().Infow("shutdown signal", "sig", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logOut.Errorw("shutdown", "err", err)
		}
	}

	logOut.Infow("bye")
}
