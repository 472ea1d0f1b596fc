package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/morningcharge/internal/server"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// Serve runs the routine HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := strings.TrimSpace(cmd.String("host")); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port > 0 {
		cfg.Port = port
	}

	env, err := r.openEnv(envOpts{remote: true})
	if err != nil {
		return err
	}
	defer env.Close()

	logger := shared.WithLogger(r.logger, "component", "server")
	handler := server.NewRoutineHandler(env.session, env.tasks, logger)
	router := server.NewRoutineRouter(handler, cfg.RequestsPerSecond, cfg.Burst)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, router, logger)
	logger.Info("routes registered", "routes", router.Routes())
	return srv.Run(ctx)
}
