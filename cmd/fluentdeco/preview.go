package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/ipc"
	"github.com/1broseidon/fluentdeco/internal/metrics"
	"github.com/1broseidon/fluentdeco/internal/runtimepath"
	"github.com/1broseidon/fluentdeco/internal/x11"
)

func runPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/fluentdeco/config.yaml)")
	display := fs.String("display", "", "X display (default: $DISPLAY)")
	caption := fs.String("caption", "fluentdeco", "Window caption")
	class := fs.String("class", "fluentdeco", "Window class, matched against exceptions")
	width := fs.Int("width", 640, "Client width in pixels")
	height := fs.Int("height", 360, "Client height in pixels")
	desktop := fs.String("desktop", "#3a6ea5", "Color painted behind the shadow")
	client := fs.String("client", "#ffffff", "Client area color")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fluentdeco preview [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show one decorated window. The window manager's focus, resize and")
		fmt.Fprintln(os.Stderr, "maximize changes drive the decoration.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keys: a toggle focus, m maximize, s shade, q quit.")
		fmt.Fprintln(os.Stderr, "SIGHUP or 'fluentdeco reload' re-reads the config.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "preview takes no arguments")
		fs.Usage()
		return 2
	}
	if *width < 1 || *height < 0 {
		fmt.Fprintln(os.Stderr, "width must be positive and height must not be negative")
		return 2
	}
	desktopColor, err := config.ParseColor(*desktop)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	clientColor, err := config.ParseColor(*client)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	logger := cfg.NewLogger(os.Stderr)
	logger.Info("configuration loaded", "path", res.Path, "files", len(res.Files), "shadow_size", cfg.ShadowSize)
	res.LogWarnings(logger)

	conn, err := x11.NewConnection(*display)
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer conn.Close()

	reg := metrics.New()
	preview, err := x11.NewPreview(conn, cfg, x11.PreviewOptions{
		Caption:      *caption,
		Class:        *class,
		Width:        *width,
		ClientHeight: *height,
		Desktop:      desktopColor.NRGBA(),
		ClientColor:  clientColor.NRGBA(),
		ConfigPath:   res.Path,
		Metrics:      reg,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to create preview window", "error", err)
		return 1
	}
	defer preview.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		logger.Error("failed to resolve IPC socket", "error", err)
		return 1
	}
	ipcServer := ipc.NewServer(socketPath, preview, logger)
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer ipcServer.Stop()

	if *metricsAddr != "" {
		go func() {
			if err := reg.Serve(ctx, *metricsAddr, logger); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					// Reload logs its own outcome.
					_ = preview.Reload()
					continue
				}
				logger.Info("shutting down preview")
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("preview running", "socket", socketPath)
	if err := preview.Run(ctx); err != nil {
		logger.Error("preview failed", "error", err)
		return 1
	}
	return 0
}
