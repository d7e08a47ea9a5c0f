package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/vango-dev/htmldoc/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "htmldoc.json"

	// EnvFileName is the optional environment file next to the config file.
	EnvFileName = ".env"

	// DefaultIndent is the per-level indentation of rendered documents.
	DefaultIndent = " "

	// DefaultReportsDir is the directory scanned for report descriptions.
	DefaultReportsDir = "reports"

	// DefaultOutput is the directory rendered documents are written to.
	DefaultOutput = "dist"

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultPort is the default preview server port.
	DefaultPort = 4040

	// DefaultDebounce is the default delay before reacting to file changes.
	DefaultDebounce = "200ms"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "htmldoc"

	// DefaultMetricsPath is the default path of the metrics endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "htmldoc"
)

// Config represents the complete htmldoc.json configuration.
type Config struct {
	// Render contains document rendering settings.
	Render RenderConfig `json:"render"`

	// Reports contains report locations.
	Reports ReportsConfig `json:"reports"`

	// Serve contains preview server settings.
	Serve ServeConfig `json:"serve"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing"`

	// Publish contains object storage settings.
	Publish PublishConfig `json:"publish"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains document rendering settings.
type RenderConfig struct {
	// Indent is written once per nesting level.
	Indent string `json:"indent,omitempty"`

	// FlushBytes is how often the preview server flushes a streamed
	// document. Zero flushes only at the start and the end.
	FlushBytes int `json:"flushBytes,omitempty"`
}

// ReportsConfig contains report locations.
type ReportsConfig struct {
	// Dir is the directory containing *.yaml report descriptions.
	Dir string `json:"dir,omitempty"`

	// Output is the directory rendered documents are written to.
	Output string `json:"output,omitempty"`
}

// ServeConfig contains preview server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Watch re-reads reports when they change on disk.
	Watch bool `json:"watch"`

	// LiveReload reloads open previews when a report changes.
	LiveReload bool `json:"liveReload"`

	// Debounce is the delay before reacting to file changes (e.g. "200ms").
	Debounce string `json:"debounce,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics on the preview server.
	Enabled bool `json:"enabled"`

	// Namespace prefixes all metric names.
	Namespace string `json:"namespace,omitempty"`

	// Path is the HTTP path of the metrics endpoint.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled creates spans for renders and HTTP requests.
	Enabled bool `json:"enabled,omitempty"`

	// TracerName is the name passed to the global tracer provider.
	TracerName string `json:"tracerName,omitempty"`
}

// PublishConfig contains object storage settings.
type PublishConfig struct {
	// Bucket is the destination bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the service endpoint (for S3-compatible stores).
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle addresses buckets by path instead of by host name.
	PathStyle bool `json:"pathStyle,omitempty"`

	// CacheControl is set on uploaded objects.
	CacheControl string `json:"cacheControl,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Render: RenderConfig{
			Indent: DefaultIndent,
		},
		Reports: ReportsConfig{
			Dir:    DefaultReportsDir,
			Output: DefaultOutput,
		},
		Serve: ServeConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			Watch:      true,
			LiveReload: true,
			Debounce:   DefaultDebounce,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for htmldoc.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No htmldoc.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'htmldoc init' to create one")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	if err := loadEnvFile(filepath.Join(filepath.Dir(path), EnvFileName)); err != nil {
		return nil, err
	}

	cfg := New()
	if err := json.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse htmldoc.json: " + err.Error()).
			WithSuggestion("Check that htmldoc.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile loads path into the environment if it exists. Variables that
// are already set keep their values.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.New("E104").WithDetail(path).Wrap(err)
	}
	return nil
}

// LoadFromWorkingDir loads the configuration of the project containing the
// working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// LoadOrDefault loads the project configuration, falling back to defaults
// rooted at the working directory when there is no htmldoc.json.
func LoadOrDefault() (*Config, error) {
	cfg, err := LoadFromWorkingDir()
	if err == nil {
		return cfg, nil
	}
	if !errors.HasCode(err, "E100") {
		return nil, err
	}

	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return nil, wdErr
	}
	cfg = New()
	cfg.configPath = filepath.Join(wd, ConfigFileName)
	return cfg, nil
}

// FindProjectRoot walks up from startDir to the first directory containing
// htmldoc.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No htmldoc.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'htmldoc init' to create one")
		}
		dir = parent
	}
}

// Exists reports whether dir contains htmldoc.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E103").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E103").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Render.Indent == "" {
		c.Render.Indent = DefaultIndent
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = DefaultReportsDir
	}
	if c.Reports.Output == "" {
		c.Reports.Output = DefaultOutput
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.Debounce == "" {
		c.Serve.Debounce = DefaultDebounce
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("E102").
			WithDetail("serve.port must be between 0 and 65535")
	}
	if _, err := time.ParseDuration(c.Serve.Debounce); err != nil {
		return errors.New("E102").
			WithDetail("serve.debounce is not a duration: " + c.Serve.Debounce).
			WithSuggestion(`Use a Go duration such as "200ms" or "1s"`)
	}
	if c.Render.FlushBytes < 0 {
		return errors.New("E102").
			WithDetail("render.flushBytes must not be negative")
	}
	if len(c.Metrics.Path) == 0 || c.Metrics.Path[0] != '/' {
		return errors.New("E102").
			WithDetail("metrics.path must start with /")
	}
	return nil
}

// DebounceDuration returns serve.debounce as a time.Duration.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Serve.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// ServeAddress returns the address string for the preview server.
func (c *Config) ServeAddress() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// ServeURL returns the full URL for the preview server.
func (c *Config) ServeURL() string {
	return "http://" + c.ServeAddress()
}

// ReportsPath returns the absolute path to the reports directory.
func (c *Config) ReportsPath() string {
	return c.resolve(c.Reports.Dir)
}

// OutputPath returns the absolute path to the output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Reports.Output)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}
