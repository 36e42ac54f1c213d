package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/framestep/framestep/internal/config"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/runtime"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			fmt.Println("Error loading configuration:", err)
			os.Exit(1)
		}
	}

	level, _ := cfg.Engine.Level()
	logger := log.New(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := runtime.New(cfg, logger)
	if err != nil {
		fmt.Println("Error creating runtime:", err)
		os.Exit(1)
	}
	defer func() { _ = rt.Close() }()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	if err = rt.Start(ctx); err != nil {
		fmt.Println("Error starting runtime:", err)
		os.Exit(1)
	}

	done := make(chan error, 1)
	go func() { done <- rt.Wait() }()

	select {
	case <-stopCh:
		cancel()
		if err = rt.Stop(); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Println("Error stopping runtime:", err)
		}
	case err = <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Println("Runtime exited with error:", err)
		}
	}
}
