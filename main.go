package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "../client", "Path to client directory")
	dbPath := flag.String("db", "pixelrealms.db", "Path to SQLite database (empty disables accounts)")
	boardPath := flag.String("leaderboard", "leaderboard.json", "Path to leaderboard file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	// Accounts and lifetime stats are optional; the server runs
	// guests-only when the database can't be opened.
	var db *Database
	if *dbPath != "" {
		var err error
		db, err = OpenDatabase(*dbPath)
		if err != nil {
			log.Warn().Err(err).Str("path", *dbPath).Msg("database unavailable, accounts disabled")
			db = nil
		} else {
			defer db.Close()
		}
	}

	board := NewLeaderboard(*boardPath)
	router := NewPeerRouter()
	lobby := NewLobbyCoordinator(time.Now().UnixNano())
	hub := NewHub(router, lobby, db, log)
	loop := NewServerLoop(router, lobby, hub, hub, board, db, log)
	hub.SetLoop(loop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run()
	go loop.Run(ctx)

	mux := SetupRoutes(hub, loop, board, *clientDir, log)
	server := &http.Server{Addr: *addr, Handler: mux}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", *addr).Str("client", *clientDir).Msg("server starting")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}
