package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/container"
)

var (
	serveConfig string
	servePort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tasknest server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Config file path")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Override HTTP port")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	mode := "fallback parser"
	if c.ModelBacked() {
		mode = "model " + cfg.Provider.Model
	}
	fmt.Printf("%s Starting tasknest on port %d (%s)...\n", logo, cfg.Server.Port, mode)

	if enabled := c.Channels().EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Gateway().Run(gctx) })
	g.Go(func() error { return c.Channels().StartAll(gctx) })
	if cfg.Digest.Enabled {
		g.Go(func() error { return c.Digest().Run(gctx) })
	}

	fmt.Printf("%s Server running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
