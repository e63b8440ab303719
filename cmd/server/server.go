package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/irmakh/gemini-rpg/internal/config"
	"github.com/irmakh/gemini-rpg/internal/handlers/ws"
)

const shutdownTimeout = 30 * time.Second

var (
	httpAddr    string
	grpcPort    int
	contentMode string
)

var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game server",
	Long: `Start the websocket game server and the gRPC health listener.

Settings come from GEMINI_RPG_* environment variables; flags override them.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides GEMINI_RPG_HTTP_ADDR)")
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC health port (overrides GEMINI_RPG_GRPC_PORT)")
	serverCmd.Flags().StringVar(&contentMode, "content", "", "Content generator: auto, openai or offline")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("http-addr") {
		cfg.HTTPAddr = httpAddr
	}
	if cmd.Flags().Changed("port") {
		cfg.GRPCPort = grpcPort
	}
	if cmd.Flags().Changed("content") {
		cfg.ContentMode = config.ContentMode(contentMode)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()
	go a.sweepSessions(ctx, cfg.SessionSweep)

	wsHandler, err := ws.NewHandler(&ws.HandlerConfig{
		GameService:    a.games,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		return fmt.Errorf("failed to create websocket handler: %w", err)
	}

	mux := http.NewServeMux()
	wsHandler.Register(mux)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("http server starting", "addr", cfg.HTTPAddr, "content", string(cfg.Content()))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCPort > 0 {
		grpcSrv, err = startGRPC(cfg.GRPCPort, logger, errChan)
		if err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown incomplete", "error", err.Error())
	}

	if grpcSrv != nil {
		stopped := make(chan struct{})
		go func() {
			grpcSrv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("graceful shutdown timeout exceeded, forcing stop")
			grpcSrv.Stop()
		case <-stopped:
		}
	}

	slog.Info("server stopped")
	return nil
}

// startGRPC serves health and reflection for orchestration health checks
func startGRPC(port int, logger *slog.Logger, errChan chan<- error) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	go func() {
		slog.Info("grpc health server starting", "port", port)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()

	return srv, nil
}

// interceptorLogger adapts slog onto the middleware's logger; the level
// values line up.
func interceptorLogger(l *slog.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(ctx context.Context, lvl grpc_logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}
