// Command serpentined runs one arena: it loads a settings document,
// starts the fixed-tick simulation, and accepts player connections
// over the line-delimited JSON wire protocol.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fenwick-arcade/serpentine/internal/arena"
)

func main() {
	var (
		settingsPath = flag.String("settings", "settings.yaml", "path to the arena settings document")
		listenAddr   = flag.String("listen", ":11000", "TCP address to accept player connections on")
		adminAddr    = flag.String("admin", "", "address for the admin HTTP surface (empty disables it)")
		seed         = flag.Int64("seed", 0, "rng seed; 0 picks one from the current time")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	settings, err := arena.LoadSettings(*settingsPath)
	if err != nil {
		slog.Error("failed to load settings", "path", *settingsPath, "err", err)
		os.Exit(1)
	}

	listener, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		slog.Error("failed to bind listen address", "addr", *listenAddr, "err", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	slog.Info("starting arena", "settings", *settingsPath, "listen", *listenAddr, "seed", rngSeed)

	rng := rand.New(rand.NewSource(rngSeed))
	srv := arena.NewServer(settings, *adminAddr, rng)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, listener); err != nil {
		slog.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}
