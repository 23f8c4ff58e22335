package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/store"
)

var statusConfig string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tasknest status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusConfig, "config", "c", "", "Config file path")
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := statusConfig
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	fmt.Printf("%s tasknest Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	if cfg.ModelEnabled() {
		fmt.Printf("Assistant: model %s\n", cfg.Provider.Model)
	} else {
		fmt.Println("Assistant: fallback parser (no API key configured)")
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		fmt.Printf("  (could not open database: %v)\n", err)
		return nil
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println()
	for _, table := range []string{"users", "tasks", "conversations", "messages"} {
		n, err := st.CountRows(ctx, table)
		if err != nil {
			fmt.Printf("%-14s ?\n", table+":")
			continue
		}
		fmt.Printf("%-14s %d\n", table+":", n)
	}
	return nil
}
