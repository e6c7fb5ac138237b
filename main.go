package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/litghost/xbee-lib/xbee"
)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port the XBee module is attached to")
	flag.Int("baud-rate", 9600, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	xbeeConfig, err := xbee.NewConfigBuilder().
		WithGuardTime(1100 * time.Millisecond).
		WithBufferSize(256).
		WithDialer(xbee.SerialDialer{
			PortName: config.SerialPort,
			BaudRate: config.BaudRate,
		}).
		Build()
	if err != nil {
		logger.Error("failed to create xbee config", "error", err)
		os.Exit(1)
	}

	core, err := xbee.Open(xbeeConfig)
	if err != nil {
		logger.Error("failed to open xbee module", "error", err)
		os.Exit(1)
	}

	logger.Info("xbee module initialized", "port", config.SerialPort, "baud", config.BaudRate)

	ctx, cancelRun := context.WithCancel(context.Background())

	gateway := NewGateway(core, logger.With("component", "gateway"))
	go gateway.Run(ctx)

	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger:  logger.With("component", "server"),
			Gateway: gateway,
		},
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", "signal", sig)

	cancelRun()

	logger.Info("closing xbee module")
	if err := core.Close(); err != nil {
		logger.Error("failed to close xbee module", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to gracefully shutdown server", "error", err)
		os.Exit(1)
	}
}
