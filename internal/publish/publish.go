// Package publish uploads rendered documents to S3 or an S3-compatible
// object store.
package publish

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/vango-dev/htmldoc/internal/config"
	"github.com/vango-dev/htmldoc/internal/errors"
	"github.com/vango-dev/htmldoc/internal/telemetry"
	"github.com/vango-dev/htmldoc/pkg/html"
)

// ContentType is set on every uploaded document.
const ContentType = "text/html; charset=utf-8"

// ObjectPutter is the part of *s3.Client used by Publisher.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures a Publisher.
type Options struct {
	// Bucket is the destination bucket. Required.
	Bucket string

	// Prefix is prepended to every object key (e.g. "reports/").
	Prefix string

	// CacheControl is set on uploaded objects when not empty.
	CacheControl string

	// Renderer formats documents. Defaults to the default configuration.
	Renderer html.RendererConfig

	Metrics *telemetry.Metrics
	Tracer  *telemetry.Tracer
	Logger  *slog.Logger
}

// Result describes an uploaded document.
type Result struct {
	Bucket string
	Key    string
	Size   int64
	ETag   string
}

// URI returns the s3:// location of the document.
func (r Result) URI() string {
	return "s3://" + r.Bucket + "/" + r.Key
}

// Publisher renders documents and uploads them.
type Publisher struct {
	client  ObjectPutter
	options Options
	logger  *slog.Logger
}

// New creates a Publisher that uploads through client.
func New(client ObjectPutter, options Options) *Publisher {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, options: options, logger: logger}
}

// Key returns the object key for name. An empty name gets a random
// UUID-based name.
func (p *Publisher) Key(name string) string {
	name = strings.TrimLeft(name, "/")
	if name == "" {
		name = uuid.NewString() + ".html"
	}
	return p.options.Prefix + name
}

// Publish renders doc as a complete document and uploads it under name.
func (p *Publisher) Publish(ctx context.Context, name string, doc *html.Element) (result Result, err error) {
	if p.options.Bucket == "" {
		return Result{}, errors.New("E400").
			WithSuggestion("Set publish.bucket in htmldoc.json or pass --bucket")
	}

	key := p.Key(name)
	ctx, span := p.options.Tracer.StartPublish(ctx, p.options.Bucket, key)
	defer func() {
		p.options.Metrics.ObservePublish(err)
		telemetry.End(span, err)
	}()

	var buf bytes.Buffer
	if err := html.NewRenderer(p.options.Renderer).RenderToWriter(&buf, doc); err != nil {
		return Result{}, errors.New("E300").Wrap(err)
	}
	size := int64(buf.Len())

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.options.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ContentType),
		Metadata: map[string]string{
			"generator":    "htmldoc",
			"publish-time": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if p.options.CacheControl != "" {
		input.CacheControl = aws.String(p.options.CacheControl)
	}

	out, err := p.client.PutObject(ctx, input)
	if err != nil {
		return Result{}, errors.New("E401").
			WithDetail("s3://" + p.options.Bucket + "/" + key).
			Wrap(err)
	}

	result = Result{Bucket: p.options.Bucket, Key: key, Size: size}
	if out != nil {
		result.ETag = aws.ToString(out.ETag)
	}
	p.logger.Info("published document", "uri", result.URI(), "bytes", size)
	return result, nil
}

// NewS3Client creates an S3 client for cfg. Region and credentials come
// from the SDK's default chain (environment, shared config and profiles,
// container or instance roles); publish.region overrides the region.
func NewS3Client(ctx context.Context, cfg config.PublishConfig) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("E402").Wrap(err)
	}
	if awsCfg.Region == "" {
		return nil, errors.New("E402").
			WithDetail("no region configured").
			WithSuggestion("Set publish.region in htmldoc.json, AWS_REGION, or a region in the active AWS profile")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}
