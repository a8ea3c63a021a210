package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/deskpilot/deskpilot/internal/infrastructure/config"
	"github.com/deskpilot/deskpilot/internal/infrastructure/logging"
	"github.com/deskpilot/deskpilot/internal/server"
	"go.uber.org/zap"
)

func main() {
	port := flag.String("port", "", "listen port (overrides DESKPILOT_PORT)")
	dev := flag.Bool("dev", false, "development logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("deskpilotd", server.Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer log.Sync()

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("server setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("shutdown complete")
}
