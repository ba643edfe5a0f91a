package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/config"
	"github.com/goliatone/go-protocol-registry/internal/logx"
	"github.com/goliatone/go-protocol-registry/internal/service"
	"github.com/goliatone/go-protocol-registry/internal/transport/web"
	"github.com/goliatone/go-protocol-registry/pkg/di"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file loaded before the environment")
	seedFile := flag.String("seed", "", "seed file loaded before serving")
	flag.Parse()

	if err := run(*envFile, *seedFile); err != nil {
		fmt.Fprintln(os.Stderr, "registry:", err)
		os.Exit(1)
	}
}

func run(envFile, seedFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed load config: %w", err)
	}

	log, flush, err := logx.New(cfg.LogBackend, cfg.LogLevel, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed init logger: %w", err)
	}
	defer flush()
	log.Info("configuration loaded", cache.Fields{"config": cfg.String()})

	c, err := di.Open(ctx, *cfg, di.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed init registry: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Close(closeCtx); err != nil {
			log.Error("close failed", cache.Fields{"error": err.Error()})
		}
	}()

	if seedFile != "" {
		data, err := service.LoadSeed(seedFile)
		if err != nil {
			return err
		}
		report, err := c.Seeder().Seed(ctx, data)
		if err != nil {
			return fmt.Errorf("failed seed %s: %w", seedFile, err)
		}
		log.Info("seed loaded", cache.Fields{"sectors": report.Sectors, "users": report.Users, "protocols": report.Protocols})
	}

	server := web.NewServer(cfg.AppAddr, c.Handler(), log)
	errc := make(chan error, 1)
	go func() { errc <- server.Run() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("stopping server", nil)
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Close(stopCtx)
}
