package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JaimeStill/dispatch-lab/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("env file load failed:", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		log.Println("config load failed:", err)
		return 1
	}

	if err := cfg.Finalize(); err != nil {
		log.Println("config finalize failed:", err)
		return 1
	}

	svc, err := NewService(cfg)
	if err != nil {
		log.Println("service init failed:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Start(); err != nil {
		log.Println("service start failed:", err)
		return 1
	}

	<-ctx.Done()

	if err := svc.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Println("shutdown failed:", err)
		return 1
	}

	log.Println("service stopped gracefully")
	return 0
}
