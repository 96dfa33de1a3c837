// Package config loads vops settings from defaults, flags, VOPS_* environment
// variables and an optional vops.{yaml,toml,json} file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Output    OutputConfig    `mapstructure:"output"`
	Server    ServerConfig    `mapstructure:"server"`
	Audio     AudioConfig     `mapstructure:"audio"`
}

type WorkspaceConfig struct {
	Path   string `mapstructure:"path"`
	Create bool   `mapstructure:"create"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	// Precision is the number of significant digits in text output; -1
	// selects the shortest representation that round-trips.
	Precision int `mapstructure:"precision"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	BitDepth   int `mapstructure:"bit_depth"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Workspace: WorkspaceConfig{
			Path:   "vops.safetensors",
			Create: true,
		},
		Output: OutputConfig{
			Format:    FormatText,
			Precision: 17,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         4,
			MaxBodyBytes:    1 << 20,
			RequestTimeout:  30,
			ShutdownTimeout: 10,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			BitDepth:   16,
		},
	}
}

// flagKeys maps each flag registered by RegisterFlags to its config key.
var flagKeys = map[string]string{
	"log-level":               "log_level",
	"workspace":               "workspace.path",
	"workspace-create":        "workspace.create",
	"output-format":           "output.format",
	"output-precision":        "output.precision",
	"server-listen-addr":      "server.listen_addr",
	"workers":                 "server.workers",
	"server-max-body-bytes":   "server.max_body_bytes",
	"server-request-timeout":  "server.request_timeout",
	"server-shutdown-timeout": "server.shutdown_timeout",
	"audio-sample-rate":       "audio.sample_rate",
	"audio-bit-depth":         "audio.bit_depth",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringP("workspace", "w", defaults.Workspace.Path, "Workspace file (.safetensors)")
	fs.Bool("workspace-create", defaults.Workspace.Create, "Start from an empty workspace when the file does not exist")
	fs.String("output-format", defaults.Output.Format, "Output format (text|json)")
	fs.Int("output-precision", defaults.Output.Precision, "Significant digits in text output (-1 = shortest)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("workers", defaults.Server.Workers, "Maximum concurrent /eval requests")
	fs.Int64("server-max-body-bytes", defaults.Server.MaxBodyBytes, "Maximum /eval request body size")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("audio-sample-rate", defaults.Audio.SampleRate, "Sample rate for export-wav")
	fs.Int("audio-bit-depth", defaults.Audio.BitDepth, "Bit depth for export-wav (8|16|24|32)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)

	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("VOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("vops")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings no command can work with.
func (c Config) Validate() error {
	var errs []error

	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("output.format %q (want %s|%s)", c.Output.Format, FormatText, FormatJSON))
	}

	if c.Output.Precision < -1 || c.Output.Precision == 0 {
		errs = append(errs, fmt.Errorf("output.precision %d (want -1 or a positive digit count)", c.Output.Precision))
	}

	if strings.TrimSpace(c.Workspace.Path) == "" {
		errs = append(errs, errors.New("workspace.path is empty"))
	}

	if c.Server.Workers < 1 {
		errs = append(errs, fmt.Errorf("server.workers %d (want >= 1)", c.Server.Workers))
	}

	if c.Server.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes %d (want >= 1)", c.Server.MaxBodyBytes))
	}

	if c.Audio.SampleRate < 1 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d (want >= 1)", c.Audio.SampleRate))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("workspace.path", c.Workspace.Path)
	v.SetDefault("workspace.create", c.Workspace.Create)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.precision", c.Output.Precision)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_body_bytes", c.Server.MaxBodyBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("audio.sample_rate", c.Audio.SampleRate)
	v.SetDefault("audio.bit_depth", c.Audio.BitDepth)
}

// bindFlags binds each known flag to its dotted key. Unset flags only supply
// defaults, so environment and config file values still apply.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	return nil
}
