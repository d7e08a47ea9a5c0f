package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/htmldoc/internal/config"
	"github.com/vango-dev/htmldoc/internal/errors"
	"github.com/vango-dev/htmldoc/internal/telemetry"
	"github.com/vango-dev/htmldoc/pkg/html"
	"github.com/vango-dev/htmldoc/pkg/report"
)

func renderCmd() *cobra.Command {
	var (
		output string
		indent string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "render [report.yaml]",
		Short: "Render a report to HTML",
		Long: `Render a report description to an HTML document.

The document is written to stdout unless --output is given. With --all,
every report in the reports directory is rendered into the output
directory configured in htmldoc.json.

Examples:
  htmldoc render reports/nightly.yaml
  htmldoc render reports/nightly.yaml -o nightly.html --indent "  "
  htmldoc render --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("indent") {
				cfg.Render.Indent = indent
			}
			rc := html.RendererConfig{Indent: cfg.Render.Indent}

			if all {
				if len(args) > 0 || output != "" {
					return errors.New("E600").WithDetail("--all renders into the configured output directory and takes no report or --output")
				}
				return renderAll(cmd, cfg, rc)
			}
			if len(args) != 1 {
				return errors.New("E600").
					WithDetail("no report given").
					WithSuggestion("Run 'htmldoc render <report.yaml>' or 'htmldoc render --all'")
			}

			if output == "" || output == "-" {
				return renderFile(cmd.OutOrStdout(), args[0], rc)
			}
			if err := renderToPath(args[0], output, rc); err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&indent, "indent", html.DefaultIndent, "Indentation per nesting level")
	cmd.Flags().BoolVar(&all, "all", false, "Render every report in the reports directory")

	return cmd
}

func renderFile(w io.Writer, path string, rc html.RendererConfig) error {
	start := time.Now()

	r, err := report.Load(path)
	if err != nil {
		return err
	}

	cw := &telemetry.CountingWriter{W: w}
	if err := report.Render(cw, r, rc); err != nil {
		return err
	}

	slog.Debug("rendered report", "report", path, "bytes", cw.N, "duration", time.Since(start))
	return nil
}

// renderToPath writes dst only after src has rendered completely. A report
// that fails to load leaves an existing dst unchanged.
func renderToPath(src, dst string, rc html.RendererConfig) error {
	var buf bytes.Buffer
	if err := renderFile(&buf, src, rc); err != nil {
		return err
	}

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.New("E301").WithDetail(dst).Wrap(err)
		}
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return errors.New("E301").WithDetail(dst).Wrap(err)
	}
	return nil
}

func renderAll(cmd *cobra.Command, cfg *config.Config, rc html.RendererConfig) error {
	entries, err := os.ReadDir(cfg.ReportsPath())
	if err != nil {
		return errors.New("E204").WithDetail(cfg.ReportsPath()).Wrap(err)
	}

	var count int
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		src := filepath.Join(cfg.ReportsPath(), e.Name())
		dst := filepath.Join(cfg.OutputPath(), strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))+".html")
		if err := renderToPath(src, dst, rc); err != nil {
			return err
		}
		info(cmd.ErrOrStderr(), "%s → %s", e.Name(), dst)
		count++
	}

	if count == 0 {
		warn(cmd.ErrOrStderr(), "No reports found in %s", cfg.ReportsPath())
		return nil
	}
	success(cmd.ErrOrStderr(), "Rendered %d reports", count)
	return nil
}
