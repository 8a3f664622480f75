package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songle/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the interactions server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	b, err := r.newBot(ctx)
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	}
	if r.config.Server.Token == "" {
		r.logger.Warn("no interaction token configured; /interactions accepts any caller")
	}

	router := server.New(server.Opts{Bot: b, Token: r.config.Server.Token, Logger: r.logger})
	return server.Serve(ctx, addr, router, r.logger)
}
