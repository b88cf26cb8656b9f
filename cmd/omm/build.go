package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/omm-dev/omm/internal/build"
	"github.com/omm-dev/omm/internal/config"
	"github.com/omm-dev/omm/pkg/compile"
)

func buildCmd() *cobra.Command {
	var (
		output string
		minify bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile all documents into the output directory",
		Long: `Compile every configured input document into static HTML plus a
shared stylesheet.

Each page gets its own .html file; the style blocks of all pages are
collected, deduplicated, and written to one stylesheet.

Examples:
  omm build
  omm build --output=public
  omm build --minify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, minify, pretty)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from omm.json)")
	cmd.Flags().BoolVar(&minify, "minify", false, "Minify HTML and CSS output")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent HTML output")

	return cmd
}

func runBuild(output string, minify, pretty bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	if output != "" {
		cfg.Output = output
	}
	if pretty {
		cfg.Compiler.Pretty = true
	}

	fmt.Println("  Building...")
	fmt.Println()

	builder := build.New(cfg, build.Options{
		Minify: minify,
		OnProgress: func(step string) {
			info("%s", step)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	result, err := builder.Build(ctx)
	if result != nil {
		printDiagnostics(result.Pages)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	success("Built %d pages in %s", len(result.Pages), result.Duration.Round(time.Millisecond))
	fmt.Println()
	fmt.Println("  Output:")
	for _, page := range result.Pages {
		fmt.Printf("    %s\n", filepath.Join(cfg.Output, page.Name+".html"))
	}
	if result.Stylesheet != "" {
		fmt.Printf("    %s\n", filepath.Join(cfg.Output, filepath.Base(result.Stylesheet)))
	}
	fmt.Println()

	return nil
}

// printDiagnostics reports the non-fatal compile problems per page.
func printDiagnostics(pages []build.Page) {
	for _, page := range pages {
		for _, d := range page.Diagnostics {
			if d.Severity == compile.SeverityError {
				info("\033[31m%s\033[0m: %s", page.Name, d)
			} else {
				warn("%s: %s", page.Name, d)
			}
		}
	}
}
