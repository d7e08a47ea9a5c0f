package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/htmldoc/internal/config"
	"github.com/vango-dev/htmldoc/internal/errors"
)

const exampleReport = `title: Example report
lang: en
sections:
  - heading: Summary
    id: summary
    paragraphs:
      - "Edit reports/example.yaml and run 'htmldoc serve' to preview it."
    list: [build, test, publish]
  - heading: Jobs
    table:
      columns: [job, status, duration]
      rows:
        - [build, ok, 42s]
        - [test, ok, 3m10s]
  - heading: Log
    log: |
      INFO starting build
      WARN cache miss for module list
      INFO build finished
    links:
      - {text: htmldoc, href: "https://github.com/vango-dev/htmldoc"}
`

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create htmldoc.json and an example report",
		Long: `Create a default htmldoc.json and reports/example.yaml in the given
directory (default: the current directory).

Examples:
  htmldoc init
  htmldoc init docs/status`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing htmldoc.json")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	out := cmd.OutOrStdout()

	if config.Exists(dir) && !force {
		return errors.New("E600").
			WithDetail(filepath.Join(dir, config.ConfigFileName) + " already exists").
			WithSuggestion("Use --force to overwrite it")
	}

	cfg := config.New()
	reportsDir := filepath.Join(dir, cfg.Reports.Dir)
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return errors.New("E103").WithDetail(reportsDir).Wrap(err)
	}

	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}
	success(out, "Created %s", cfg.Path())

	example := filepath.Join(reportsDir, "example.yaml")
	if _, err := os.Stat(example); err == nil {
		warn(out, "Kept existing %s", example)
	} else {
		if err := os.WriteFile(example, []byte(exampleReport), 0644); err != nil {
			return errors.New("E103").WithDetail(example).Wrap(err)
		}
		success(out, "Created %s", example)
	}

	info(out, "Run 'htmldoc serve' to preview your reports")
	return nil
}
