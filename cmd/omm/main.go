package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omm-dev/omm/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┬┐┌┬┐
  │ │││││││
  └─┘┴ ┴┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "omm",
		Short: "Compile ordered object trees into HTML and CSS",
		Long: `omm turns ordered key-value documents into static HTML pages
and a shared, deduplicated stylesheet.

Documents are plain JSON or YAML objects: the first key of every
object names the element, a style key carries nested CSS, and the
rest become attributes. The compiler allocates class names for
identical style blocks once and flattens nested selectors.

  • Deterministic output: same document, same bytes
  • Deduplicated stylesheet shared across pages
  • Hot reload development server
  • One-command publish to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		initCmd(),
		buildCmd(),
		devCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			fmt.Fprintln(os.Stderr, e.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the omm ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
