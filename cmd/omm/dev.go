package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/omm-dev/omm/internal/build"
	"github.com/omm-dev/omm/internal/config"
	"github.com/omm-dev/omm/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with hot reload.

The dev server watches the input documents, recompiles on change,
and automatically refreshes connected browsers. Build metrics are
exposed on /metrics.

Examples:
  omm dev
  omm dev --port=8080
  omm dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from omm.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from omm.json)")

	return cmd
}

func runDev(port int, host string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	server := dev.NewServer(dev.ServerOptions{
		Config: cfg,
		Logger: logger,
		OnBuildComplete: func(result *build.Result, err error) {
			if err == nil && result != nil {
				success("Built %d pages in %s", len(result.Pages), result.Duration.Round(time.Millisecond))
			}
		},
		OnReload: func(clients int) {
			if clients > 0 {
				success("Reloaded %d browsers", clients)
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		server.Stop()
	}()

	info("Serving %s at %s", cfg.Output, cfg.DevURL())
	fmt.Println()

	err = server.Start(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
