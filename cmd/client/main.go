package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	daideclient "github.com/freeeve/daide-client/daide/client"
	"github.com/freeeve/daide-client/daide/transport"
	"github.com/freeeve/daide-client/internal/config"
	"github.com/freeeve/daide-client/internal/logger"
	"github.com/freeeve/daide-client/strategy"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	host := flag.String("host", cfg.DAIDEHost, "DAIDE server host")
	port := flag.String("port", cfg.DAIDEPort, "DAIDE server port")
	observe := flag.Bool("observe", false, "connect as an observer (sends OBS, never submits orders)")
	name := flag.String("name", "", "bot/power name sent in NME")
	strategyName := flag.String("strategy", "hold", "order strategy: hold, random, neural")
	debug := flag.Bool("debug", false, "enable debug logging")
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

	c, err := daideclient.New(daideclient.Config{
		Addr:     *host + ":" + *port,
		Name:     *name,
		Version:  "1.0",
		Observer: *observe,
		Strategy: strat,
		Log:      logger.NewSessionLogger(zl),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return daideclient.ExitInvalidArgs
	}

	if err := c.Run(); err != nil {
		return exitCodeFor(zl, err)
	}
	return daideclient.ExitClean
}

func exitCodeFor(zl zerolog.Logger, err error) int {
	if isHandshakeRejection(err) {
		zl.Error().Err(err).Msg("handshake rejected")
		return daideclient.ExitHandshakeRejected
	}
	zl.Error().Err(err).Msg("session ended with a transport error")
	return daideclient.ExitTransportError
}

// isHandshakeRejection reports whether err stems from the server refusing
// the IM handshake, as opposed to any other transport failure.
func isHandshakeRejection(err error) bool {
	return errors.Is(err, transport.ErrHandshake)
}
