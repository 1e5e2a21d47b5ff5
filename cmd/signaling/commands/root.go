package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mossy-p/roomrelay/config"
	"github.com/mossy-p/roomrelay/internal/handlers"
	"github.com/mossy-p/roomrelay/internal/redis"
	"github.com/mossy-p/roomrelay/internal/signaling"
)

const shutdownTimeout = 5 * time.Second

var configFile string

// RootCmd is the root command for the signaling server
var RootCmd = &cobra.Command{
	Use:   "signaling [port]",
	Short: "WebRTC room signaling relay over WebSockets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServer,
}

func init() {
	RootCmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		port, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[0], err)
		}
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []signaling.Option
	if cfg.Redis.Enabled {
		presence, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer presence.Close()
		opts = append(opts, signaling.WithPresence(presence))
		log.Info().Str("module", "main").Str("host", cfg.Redis.Host).Msg("redis presence mirror enabled")
	}

	registry := signaling.NewRegistry(opts...)
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler:           handlers.NewRouter(cfg, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("module", "main").Str("addr", srv.Addr).Msg("signaling server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Str("module", "main").Msg("server error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Str("module", "main").Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Str("module", "main").Msg("server forced to shutdown")
		return err
	}
	log.Info().Str("module", "main").Msg("server exited")
	return nil
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
