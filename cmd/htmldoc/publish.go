package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/htmldoc/internal/config"
	"github.com/vango-dev/htmldoc/internal/errors"
	"github.com/vango-dev/htmldoc/internal/publish"
	"github.com/vango-dev/htmldoc/internal/telemetry"
	"github.com/vango-dev/htmldoc/pkg/html"
	"github.com/vango-dev/htmldoc/pkg/report"
)

func publishCmd() *cobra.Command {
	var (
		bucket string
		key    string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "publish <report.yaml>",
		Short: "Render a report and upload it to S3",
		Long: `Render a report and upload the document to S3 or an S3-compatible store.

Credentials and region come from the standard AWS chain: environment
variables, shared config and AWS_PROFILE, or a container or instance role.
Bucket, prefix, region and endpoint default to the publish section of
htmldoc.json. Without --key the document gets a
random name.

Examples:
  htmldoc publish reports/nightly.yaml --bucket builds
  htmldoc publish reports/nightly.yaml --key nightly/latest.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Publish.Prefix = prefix
			}
			if cfg.Publish.Bucket == "" {
				return errors.New("E400").
					WithSuggestion("Set publish.bucket in htmldoc.json or pass --bucket")
			}

			r, err := report.Load(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := publish.NewS3Client(ctx, cfg.Publish)
			if err != nil {
				return err
			}

			var tracer *telemetry.Tracer
			if cfg.Tracing.Enabled {
				tracer = telemetry.NewTracer(cfg.Tracing.TracerName)
			}

			p := publish.New(client, publish.Options{
				Bucket:       cfg.Publish.Bucket,
				Prefix:       cfg.Publish.Prefix,
				CacheControl: cfg.Publish.CacheControl,
				Renderer:     html.RendererConfig{Indent: cfg.Render.Indent},
				Tracer:       tracer,
			})

			res, err := p.Publish(ctx, key, r.Build())
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Published %s (%d bytes)", res.URI(), res.Size)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Destination bucket (default from htmldoc.json)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Object name below the prefix (default random)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from htmldoc.json)")

	return cmd
}
