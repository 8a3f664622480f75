package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/songle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing, then runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config = shared.DefaultConfig()
	case err != nil:
		return err
	}

	if err := shared.ApplyEnv(config); err != nil {
		return err
	}
	r.config = config
	r.configPath = configPath

	r.logger.Info("initializing database", "path", config.Database.Path)
	if _, err := r.database(); err != nil {
		return err
	}

	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	if !config.HasSpotifyCredentials() {
		r.writePlain("Next: set SPOTIFY_ID and SPOTIFY_SECRET (or add them to %s)\n", configPath)
	}
	return nil
}
