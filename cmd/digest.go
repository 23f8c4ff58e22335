package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/container"
)

var digestConfig string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send one pending-task digest pass now",
	RunE:  runDigest,
}

func init() {
	digestCmd.Flags().StringVarP(&digestConfig, "config", "c", "", "Config file path")
}

func runDigest(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(digestConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Channels need a live connection before anything can be delivered.
	go func() { _ = c.Channels().StartAll(ctx) }()
	if err := c.Channels().WaitReady(ctx); err != nil {
		return fmt.Errorf("channels not ready: %w", err)
	}

	c.Digest().RunOnce(ctx)
	fmt.Println("✓ Digest pass complete")
	return nil
}
