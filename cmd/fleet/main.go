// Command fleet runs one DAIDE client session alongside the admin
// spectator surface: a fleet operator watches decoded traffic over a
// dashboard WebSocket while the underlying client plays a strategy same
// as cmd/client would on its own.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freeeve/daide-client/admin"
	"github.com/freeeve/daide-client/admin/sessionlog"
	daideclient "github.com/freeeve/daide-client/daide/client"
	"github.com/freeeve/daide-client/daide/transport"
	"github.com/freeeve/daide-client/internal/config"
	"github.com/freeeve/daide-client/internal/logger"
	"github.com/freeeve/daide-client/strategy"

	redisrepo "github.com/freeeve/daide-client/internal/repository/redis"
	"github.com/freeeve/daide-client/internal/repository/postgres"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	host := flag.String("host", cfg.DAIDEHost, "DAIDE server host")
	port := flag.String("port", cfg.DAIDEPort, "DAIDE server port")
	observe := flag.Bool("observe", false, "connect as an observer")
	name := flag.String("name", "", "bot/power name sent in NME")
	strategyName := flag.String("strategy", "hold", "order strategy: hold, random, neural")
	debug := flag.Bool("debug", false, "enable debug logging")
	adminPort := flag.String("admin-port", cfg.AdminPort, "admin HTTP+WS surface port")
	flag.Parse()

	if *debug {
		os.Setenv("LOG_LEVEL", "debug")
	}
	logger.Init()
	zl := logger.Get()

	strat, err := strategy.ByName(*strategyName, cfg.GONNXModelPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return daideclient.ExitInvalidArgs
	}

	var pubsub *admin.PubSub
	if redisClient, rerr := redisrepo.NewClient(cfg.RedisURL); rerr != nil {
		zl.Warn().Err(rerr).Msg("redis unavailable, spectator fan-out limited to this process")
	} else {
		defer redisClient.Close()
		pubsub = admin.NewPubSubFromClient(redisClient.Underlying(), zl)
	}

	var auditLog *sessionlog.Repo
	if db, derr := postgres.Connect(cfg.DatabaseURL); derr != nil {
		zl.Warn().Err(derr).Msg("postgres unavailable, session audit log disabled")
	} else {
		defer db.Close()
		if repo, rerr := sessionlog.NewRepo(db); rerr != nil {
			zl.Warn().Err(rerr).Msg("session audit log migration failed")
		} else {
			auditLog = repo
		}
	}

	srv := admin.NewServer(admin.Config{
		JWTSecret:          cfg.AdminJWTSecret,
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		GoogleRedirectURL:  cfg.GoogleRedirectURL,
	}, pubsub, auditLog, zl)

	httpSrv := &http.Server{
		Addr:         ":" + *adminPort,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		zl.Info().Str("port", *adminPort).Msg("admin surface listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal().Err(err).Msg("admin surface failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	sessionID := logger.NewSessionID()
	relay, cancelRelay := srv.NewSessionRelay(sessionID)
	defer cancelRelay()

	addr := *host + ":" + *port
	if auditLog != nil {
		if err := auditLog.RecordStart(context.Background(), sessionID, addr, strat.Name(), *observe); err != nil {
			zl.Warn().Err(err).Msg("failed to record session start")
		}
	}

	c, err := daideclient.New(daideclient.Config{
		Addr:             addr,
		Name:             *name,
		Version:          "1.0",
		Observer:         *observe,
		Strategy:         strat,
		OnInboundMessage: relay.OnInboundMessage,
		Log:              logger.NewSessionLogger(zl.With().Str("sessionId", sessionID).Logger()),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return daideclient.ExitInvalidArgs
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		zl.Info().Msg("shutdown signal received")
		os.Exit(daideclient.ExitClean)
	}()

	runErr := c.Run()

	reason := "clean_close"
	code := daideclient.ExitClean
	if runErr != nil {
		if errors.Is(runErr, transport.ErrHandshake) {
			reason, code = "handshake_rejected", daideclient.ExitHandshakeRejected
		} else {
			reason, code = "transport_error", daideclient.ExitTransportError
		}
		zl.Error().Err(runErr).Msg("session ended with an error")
	}

	if auditLog != nil {
		if power, hasPasscode, ok := c.PowerAssigned(); ok {
			if err := auditLog.RecordRegistered(context.Background(), sessionID, power, hasPasscode); err != nil {
				zl.Warn().Err(err).Msg("failed to record power assignment")
			}
		}
		if err := auditLog.RecordEnd(context.Background(), sessionID, reason); err != nil {
			zl.Warn().Err(err).Msg("failed to record session end")
		}
	}

	return code
}
