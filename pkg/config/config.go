package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/intothevoid/drishti/pkg/vision"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. DRISHTI_INTERVAL=20ms
const EnvPrefix = "DRISHTI"

// Config holds the viewer settings
type Config struct {
	StreamsFile string        `mapstructure:"streams_file" yaml:"streams_file"`
	Interval    time.Duration `mapstructure:"interval" yaml:"-"`
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
	LogPretty   bool          `mapstructure:"log_pretty" yaml:"log_pretty"`
	Autoplay    bool          `mapstructure:"autoplay" yaml:"autoplay"`
	Scaler      string        `mapstructure:"scaler" yaml:"scaler"`
	Fit         string        `mapstructure:"fit" yaml:"fit"`
	Window      WindowConfig  `mapstructure:"window" yaml:"window"`
}

// WindowConfig is the initial window size
type WindowConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// MarshalYAML writes the interval in duration syntax instead of nanoseconds
func (c Config) MarshalYAML() (any, error) {
	type plain Config
	return struct {
		plain    `yaml:",inline"`
		Interval string `yaml:"interval"`
	}{plain(c), c.Interval.String()}, nil
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("streams_file", "rtsp-traffic-ga.txt")
	v.SetDefault("interval", "10ms")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
	v.SetDefault("autoplay", false)
	v.SetDefault("scaler", "catmullrom")
	v.SetDefault("fit", "stretch")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
}

// Load reads the optional config file, the environment and the defaults
// into a validated Config. An empty path skips the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and names
func (c *Config) Validate() error {
	var errs []error
	if c.StreamsFile == "" {
		errs = append(errs, errors.New("streams_file must be set"))
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %v", c.Interval))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if _, err := vision.ParseInterpolator(c.Scaler); err != nil {
		errs = append(errs, err)
	}
	if _, err := vision.ParseFitMode(c.Fit); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Resizer builds the frame scaler described by the config
func (c *Config) Resizer() (*vision.Resizer, error) {
	fit, err := vision.ParseFitMode(c.Fit)
	if err != nil {
		return nil, err
	}
	return vision.NewResizer(c.Scaler, fit)
}
