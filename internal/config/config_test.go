package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

func newFlagBinder(t *testing.T, args ...string) *fakeBinder {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, DefaultConfig())

	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	return &fakeBinder{fs: fs}
}

// chdirTemp runs the test inside an empty directory so a stray vops.yaml in
// the package directory cannot leak in.
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want info", cfg.LogLevel)
	}

	if cfg.Workspace.Path != "vops.safetensors" || !cfg.Workspace.Create {
		t.Errorf("Workspace = %+v", cfg.Workspace)
	}

	if cfg.Output.Format != FormatText || cfg.Output.Precision != 17 {
		t.Errorf("Output = %+v", cfg.Output)
	}

	if cfg.Server.ListenAddr != ":8080" || cfg.Server.Workers != 4 || cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("Server = %+v", cfg.Server)
	}

	if cfg.Server.RequestTimeout != 30 || cfg.Server.ShutdownTimeout != 10 {
		t.Errorf("Server timeouts = %+v", cfg.Server)
	}

	if cfg.Audio.SampleRate != 44100 || cfg.Audio.BitDepth != 16 {
		t.Errorf("Audio = %+v", cfg.Audio)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, DefaultConfig())

	checks := []struct {
		flag string
		want string
	}{
		{"log-level", "info"},
		{"workspace", "vops.safetensors"},
		{"output-format", "text"},
		{"output-precision", "17"},
		{"workers", "4"},
		{"audio-bit-depth", "16"},
	}

	for _, c := range checks {
		f := fs.Lookup(c.flag)
		if f == nil {
			t.Errorf("flag %q not registered", c.flag)
			continue
		}

		if f.DefValue != c.want {
			t.Errorf("flag %q default = %q; want %q", c.flag, f.DefValue, c.want)
		}
	}

	for name := range flagKeys {
		if fs.Lookup(name) == nil {
			t.Errorf("flagKeys entry %q has no flag", name)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(LoadOptions{Cmd: newFlagBinder(t), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v; want defaults", cfg)
	}
}

func TestLoad_FlagOverride(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(LoadOptions{
		Cmd:      newFlagBinder(t, "--workers=8", "--log-level=debug", "-w", "other.safetensors", "--output-format=json"),
		Defaults: DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Workers != 8 {
		t.Errorf("Server.Workers = %d; want 8", cfg.Server.Workers)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want debug", cfg.LogLevel)
	}

	if cfg.Workspace.Path != "other.safetensors" {
		t.Errorf("Workspace.Path = %q", cfg.Workspace.Path)
	}

	if cfg.Output.Format != FormatJSON {
		t.Errorf("Output.Format = %q; want json", cfg.Output.Format)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("VOPS_LOG_LEVEL", "warn")
	t.Setenv("VOPS_SERVER_LISTEN_ADDR", ":9999")
	t.Setenv("VOPS_WORKSPACE_CREATE", "false")

	cfg, err := Load(LoadOptions{Cmd: newFlagBinder(t), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn", cfg.LogLevel)
	}

	if cfg.Server.ListenAddr != ":9999" {
		t.Errorf("Server.ListenAddr = %q; want :9999", cfg.Server.ListenAddr)
	}

	if cfg.Workspace.Create {
		t.Error("Workspace.Create = true; want false")
	}
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("VOPS_SERVER_WORKERS", "3")

	cfg, err := Load(LoadOptions{Cmd: newFlagBinder(t, "--workers=9"), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Workers != 9 {
		t.Errorf("Server.Workers = %d; want 9", cfg.Server.Workers)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `
log_level: error
workspace:
  path: data/ws.safetensors
output:
  precision: -1
server:
  workers: 16
  listen_addr: ":7777"
`
	if err := os.WriteFile(filepath.Join(dir, "vops.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(LoadOptions{Cmd: newFlagBinder(t), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q; want error", cfg.LogLevel)
	}

	if cfg.Workspace.Path != "data/ws.safetensors" {
		t.Errorf("Workspace.Path = %q", cfg.Workspace.Path)
	}

	if cfg.Output.Precision != -1 {
		t.Errorf("Output.Precision = %d; want -1", cfg.Output.Precision)
	}

	if cfg.Server.Workers != 16 || cfg.Server.ListenAddr != ":7777" {
		t.Errorf("Server = %+v", cfg.Server)
	}

	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %d; want default 44100", cfg.Audio.SampleRate)
	}
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	chdirTemp(t)

	cfgFile := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(cfgFile, []byte("[audio]\nbit_depth = 24\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: cfgFile, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audio.BitDepth != 24 {
		t.Errorf("Audio.BitDepth = %d; want 24", cfg.Audio.BitDepth)
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	cfgFile := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfgFile, []byte(":\t:bad yaml:::"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(LoadOptions{ConfigFile: cfgFile, Defaults: DefaultConfig()}); err == nil {
		t.Error("Load() = nil; want error for invalid config file")
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load(LoadOptions{ConfigFile: "/nonexistent/vops.yaml", Defaults: DefaultConfig()})
	if err == nil {
		t.Error("Load() = nil; want error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"zero precision", func(c *Config) { c.Output.Precision = 0 }, "output.precision"},
		{"no workspace", func(c *Config) { c.Workspace.Path = " " }, "workspace.path"},
		{"no workers", func(c *Config) { c.Server.Workers = 0 }, "server.workers"},
		{"no body", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "server.max_body_bytes"},
		{"no sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, "audio.sample_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v; want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	chdirTemp(t)

	_, err := Load(LoadOptions{Cmd: newFlagBinder(t, "--output-format=yaml"), Defaults: DefaultConfig()})
	if err == nil {
		t.Fatal("Load() = nil; want validation error")
	}
}
