package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	configName = "linker"
	envPrefix  = "LINKER"

	DefaultEnv     = "dev"
	DefaultTimeout = 10 * time.Second
)

const (
	SelectModeSet    = "set"
	SelectModeToggle = "toggle"
)

var (
	ErrMissingEndpoint = errors.New("missing endpoint, set <env>.endpoint in the config file or LINKER_ENDPOINT")
)

// Breaker configures the circuit breaker wrapped around every request.
type Breaker struct {
	Enabled          bool
	MaxRequests      uint32        `validate:"gte=1"`
	Interval         time.Duration `validate:"gte=0"`
	Timeout          time.Duration `validate:"gt=0"`
	FailureThreshold float64       `validate:"gt=0,lte=1"`
	MinRequests      uint32
}

// Config is resolved once at start and handed to the client and view models.
type Config struct {
	Env        string        `validate:"required"`
	Endpoint   string        `validate:"required,url"`
	Timeout    time.Duration `validate:"gt=0"`
	LogLevel   string        `validate:"oneof=panic fatal error warn warning info debug trace"`
	SelectMode string        `validate:"oneof=set toggle"`
	Breaker    Breaker
	// File is the config document that was read, empty when none was found.
	File string
}

// Options tell LoadConfig where to look.
type Options struct {
	// File is an explicit config document (yaml or json). When empty the
	// default locations are searched.
	File string
	// Env selects the environment block, overriding LINKER_ENV and the file.
	Env string
	// DotEnv files are loaded into the process environment first.
	DotEnv []string
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Env:        DefaultEnv,
		Timeout:    DefaultTimeout,
		LogLevel:   logrus.InfoLevel.String(),
		SelectMode: SelectModeSet,
		Breaker: Breaker{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.8,
			MinRequests:      5,
		},
	}
}

// LoadConfig reads the config document and the environment.
//
// The document mirrors the api config of the web ui, one block per environment:
//
//	env: dev
//	dev:
//	  endpoint: http://localhost:4001
//	prod:
//	  endpoint: https://linker.example.com/api
func LoadConfig(opts Options) (*Config, error) {
	if err := loadDotEnv(opts.DotEnv); err != nil {
		return nil, err
	}

	v := viper.New()
	def := Default()
	v.SetDefault("env", def.Env)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("select_mode", def.SelectMode)
	v.SetDefault("breaker.enabled", def.Breaker.Enabled)
	v.SetDefault("breaker.max_requests", def.Breaker.MaxRequests)
	v.SetDefault("breaker.interval", def.Breaker.Interval)
	v.SetDefault("breaker.timeout", def.Breaker.Timeout)
	v.SetDefault("breaker.failure_threshold", def.Breaker.FailureThreshold)
	v.SetDefault("breaker.min_requests", def.Breaker.MinRequests)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about
	_ = v.BindEnv("endpoint")

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(configName)
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logrus.Debug("no config file found, using defaults and environment")
	}

	cfg := &Config{
		Env:        v.GetString("env"),
		Timeout:    v.GetDuration("timeout"),
		LogLevel:   strings.ToLower(v.GetString("log_level")),
		SelectMode: strings.ToLower(v.GetString("select_mode")),
		Breaker: Breaker{
			Enabled:          v.GetBool("breaker.enabled"),
			MaxRequests:      v.GetUint32("breaker.max_requests"),
			Interval:         v.GetDuration("breaker.interval"),
			Timeout:          v.GetDuration("breaker.timeout"),
			FailureThreshold: v.GetFloat64("breaker.failure_threshold"),
			MinRequests:      v.GetUint32("breaker.min_requests"),
		},
		File: v.ConfigFileUsed(),
	}
	if opts.Env != "" {
		cfg.Env = opts.Env
	}

	cfg.Endpoint = v.GetString("endpoint")
	if cfg.Endpoint == "" {
		cfg.Endpoint = v.GetString(cfg.Env + ".endpoint")
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyLogLevel sets the level of the standard logrus logger.
func (c *Config) ApplyLogLevel() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, keeping %s", c.LogLevel, logrus.GetLevel())
		return
	}
	logrus.SetLevel(level)
}

// DefaultFile is where the cli persists the config document.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".tmp", configName+".yml")
	}
	return filepath.Join(dir, configName, configName+".yml")
}

func searchPaths() []string {
	paths := []string{".", "./config"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, configName))
	}
	return paths
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}

	return nil
}
