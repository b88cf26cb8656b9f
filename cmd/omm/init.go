package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omm-dev/omm/internal/config"
	"github.com/omm-dev/omm/internal/errors"
)

const starterPage = `{
  "div": [
    {
      "h1": "Hello, omm",
      "_note": "The first key of every object is the element tag; its value holds the children.",
      "style": {
        "color": "#1a1a2e",
        "&:hover": { "color": "#e94560" }
      }
    },
    {
      "p": "Edit pages/index.json and run omm dev to see changes live."
    }
  ],
  "style": {
    "font-family": "system-ui, sans-serif",
    "margin": "0 auto",
    "max-width": "40rem",
    "padding": "2rem"
  }
}
`

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new omm project",
		Long: `Create a new omm project with a starter configuration and an
example page.

With no argument the project is created in the current directory.

Examples:
  omm init
  omm init my-site
  omm init my-site --name="My Site"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: directory name)")

	return cmd
}

func runInit(dir, name string) error {
	printBanner()
	fmt.Println("  Creating a new omm project...")
	fmt.Println()

	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if config.Exists(projectDir) {
		return errors.New("E401").
			WithDetail("'" + projectDir + "' already holds an omm project").
			WithSuggestion("Pick a different directory or edit the existing " + config.ConfigFileName)
	}

	if err := os.MkdirAll(filepath.Join(projectDir, "pages"), 0o755); err != nil {
		return err
	}

	cfg := config.New()
	cfg.Name = name
	if cfg.Name == "" {
		cfg.Name = filepath.Base(projectDir)
	}
	if err := cfg.SaveTo(filepath.Join(projectDir, config.ConfigFileName)); err != nil {
		return err
	}

	pagePath := filepath.Join(projectDir, "pages", "index.json")
	if err := os.WriteFile(pagePath, []byte(starterPage), 0o644); err != nil {
		return err
	}

	success("Created %s", cfg.Name)
	fmt.Println()
	info("%s", config.ConfigFileName)
	info("pages/index.json")
	fmt.Println()
	fmt.Println("  Next steps:")
	if dir != "." {
		fmt.Printf("    cd %s\n", dir)
	}
	fmt.Println("    omm dev")
	fmt.Println()

	return nil
}
