package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/htmldoc/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Render.Indent != DefaultIndent {
		t.Errorf("Render.Indent = %q, want %q", cfg.Render.Indent, DefaultIndent)
	}
	if cfg.Reports.Dir != "reports" || cfg.Reports.Output != "dist" {
		t.Errorf("Reports = %+v", cfg.Reports)
	}
	if cfg.Serve.Port != DefaultPort {
		t.Errorf("Serve.Port = %d, want %d", cfg.Serve.Port, DefaultPort)
	}
	if !cfg.Serve.Watch || !cfg.Serve.LiveReload {
		t.Error("watch and live reload should default to true")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Tracing.Enabled {
		t.Error("tracing should default to disabled")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
  "render": { "indent": "\t" },
  "reports": { "dir": "docs" },
  "serve": { "port": 8080, "liveReload": false, "debounce": "1s" },
  "publish": { "bucket": "builds", "prefix": "nightly/" }
}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Render.Indent != "\t" {
		t.Errorf("Render.Indent = %q, want tab", cfg.Render.Indent)
	}
	if cfg.Reports.Dir != "docs" {
		t.Errorf("Reports.Dir = %q, want docs", cfg.Reports.Dir)
	}
	if cfg.Reports.Output != DefaultOutput {
		t.Errorf("Reports.Output = %q, want default %q", cfg.Reports.Output, DefaultOutput)
	}
	if cfg.Serve.Port != 8080 || cfg.Serve.LiveReload {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
	if !cfg.Serve.Watch {
		t.Error("Serve.Watch should keep its default")
	}
	if cfg.DebounceDuration() != time.Second {
		t.Errorf("DebounceDuration() = %v, want 1s", cfg.DebounceDuration())
	}
	if cfg.Publish.Bucket != "builds" || cfg.Publish.Prefix != "nightly/" {
		t.Errorf("Publish = %+v", cfg.Publish)
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
	if cfg.ReportsPath() != filepath.Join(dir, "docs") {
		t.Errorf("ReportsPath() = %q", cfg.ReportsPath())
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("HTMLDOC_TEST_BUCKET", "from-env")

	dir := t.TempDir()
	writeConfig(t, dir, `{"publish": {"bucket": "${HTMLDOC_TEST_BUCKET}"}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Publish.Bucket != "from-env" {
		t.Errorf("Publish.Bucket = %q, want from-env", cfg.Publish.Bucket)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	// Registered so the variable is restored after the test.
	t.Setenv("HTMLDOC_TEST_REGION", "")
	os.Unsetenv("HTMLDOC_TEST_REGION")

	if err := os.WriteFile(filepath.Join(dir, EnvFileName), []byte("HTMLDOC_TEST_REGION=eu-central-1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, `{"publish": {"region": "${HTMLDOC_TEST_REGION}"}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Publish.Region != "eu-central-1" {
		t.Errorf("Publish.Region = %q, want eu-central-1", cfg.Publish.Region)
	}
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	t.Setenv("HTMLDOC_TEST_PREFIX", "set/")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, EnvFileName), []byte("HTMLDOC_TEST_PREFIX=file/\n"), 0644); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, `{"publish": {"prefix": "${HTMLDOC_TEST_PREFIX}"}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Publish.Prefix != "set/" {
		t.Errorf("Publish.Prefix = %q, want set/", cfg.Publish.Prefix)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{"invalid json", `{"serve": `, "E101"},
		{"port out of range", `{"serve": {"port": 70000}}`, "E102"},
		{"bad debounce", `{"serve": {"debounce": "soon"}}`, "E102"},
		{"negative flush", `{"render": {"flushBytes": -1}}`, "E102"},
		{"relative metrics path", `{"metrics": {"path": "metrics"}}`, "E102"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir)
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("Load() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.HasCode(err, "E100") {
		t.Errorf("Load() error = %v, want E100", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Serve.Port = 9000
	cfg.Serve.LiveReload = false
	cfg.Publish.Bucket = "b"

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Serve.Port != 9000 || loaded.Serve.LiveReload || loaded.Publish.Bucket != "b" {
		t.Errorf("loaded = %+v", loaded)
	}

	loaded.Serve.Port = 9001
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	again, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if again.Serve.Port != 9001 {
		t.Errorf("Serve.Port = %d after Save, want 9001", again.Serve.Port)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)

	nested := filepath.Join(root, "reports", "nightly")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
}

func TestFindProjectRootNotFound(t *testing.T) {
	_, err := FindProjectRoot(t.TempDir())
	if err == nil {
		t.Skip("a parent of the temp dir contains htmldoc.json")
	}
	if !errors.HasCode(err, "E100") {
		t.Errorf("FindProjectRoot() error = %v, want E100", err)
	}
}

func TestServeAddress(t *testing.T) {
	cfg := New()
	cfg.Serve.Host = "0.0.0.0"
	cfg.Serve.Port = 3000

	if got := cfg.ServeAddress(); got != "0.0.0.0:3000" {
		t.Errorf("ServeAddress() = %q", got)
	}
	if got := cfg.ServeURL(); got != "http://0.0.0.0:3000" {
		t.Errorf("ServeURL() = %q", got)
	}
}

func TestOutputPathAbsolute(t *testing.T) {
	cfg := New()
	abs := filepath.Join(t.TempDir(), "out")
	cfg.Reports.Output = abs
	if cfg.OutputPath() != abs {
		t.Errorf("OutputPath() = %q, want %q", cfg.OutputPath(), abs)
	}
}
