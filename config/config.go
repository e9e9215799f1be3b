package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
)

// DefaultEnvFile is read when no env file is named explicitly. A missing
// default file is not an error.
const DefaultEnvFile = ".env"

var (
	// ErrMissingConfig is returned when a required value is not set anywhere.
	ErrMissingConfig = errors.New("missing required configuration")
	// ErrInvalidConfig is returned when a value is set but not acceptable.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the resolved configuration for one invocation.
type Config struct {
	Connection ConnectionConfig `mapstructure:",squash"`
	Log        LogConfig        `mapstructure:",squash"`
}

// ConnectionConfig holds the storage endpoint and credentials.
type ConnectionConfig struct {
	EndpointURL     string `mapstructure:"endpoint_url" env:"ENDPOINT_URL" validate:"required,url"`
	AccessKeyID     string `mapstructure:"aws_access_key_id" env:"AWS_ACCESS_KEY_ID" validate:"required"`
	SecretAccessKey string `mapstructure:"aws_secret_access_key" env:"AWS_SECRET_ACCESS_KEY" validate:"required"`
	Region          string `mapstructure:"r2_region" env:"R2_REGION" validate:"required,oneof=wnam enam weur eeur apac auto"`
}

// LogValue keeps credentials out of log records.
func (c ConnectionConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", c.EndpointURL),
		slog.String("access_key", r2ctl.MaskSecret(c.AccessKeyID)),
		slog.String("region", c.Region),
	)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"r2_log_level" env:"R2_LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	Dir   string `mapstructure:"r2_log_dir" env:"R2_LOG_DIR"`
}

// envBindings maps viper keys to the environment variables that set them.
var envBindings = map[string]string{
	"endpoint_url":          "ENDPOINT_URL",
	"aws_access_key_id":     "AWS_ACCESS_KEY_ID",
	"aws_secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"r2_region":             "R2_REGION",
	"r2_log_level":          "R2_LOG_LEVEL",
	"r2_log_dir":            "R2_LOG_DIR",
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"endpoint":   "endpoint_url",
	"access-key": "aws_access_key_id",
	"secret-key": "aws_secret_access_key",
	"region":     "r2_region",
	"log-level":  "r2_log_level",
	"log-dir":    "r2_log_dir",
}

// bindFlags binds explicitly set CLI flags to viper keys. Flags without a
// configuration key are ignored.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok || !f.Changed {
			return
		}
		_ = v.BindPFlag(viperKey, f)
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("r2_region", "auto")
	v.SetDefault("r2_log_level", "warn")
	v.SetDefault("r2_log_dir", "")
}

// applyProfile layers a saved profile over the defaults. Empty profile
// fields leave the defaults in place.
func applyProfile(v *viper.Viper, p *clientcli.Profile) {
	if p == nil {
		return
	}
	set := func(key, value string) {
		if value != "" {
			v.SetDefault(key, value)
		}
	}
	set("endpoint_url", p.Endpoint)
	set("aws_access_key_id", p.AccessKey)
	set("aws_secret_access_key", p.SecretKey)
	set("r2_region", p.Region)
}

// Options control where Load looks for values.
type Options struct {
	// EnvFiles are dotenv files merged left to right. When empty,
	// DefaultEnvFile is read if it exists.
	EnvFiles []string
	// Profile supplies values below the env files.
	Profile *clientcli.Profile
	// Flags are bound when explicitly set (can be nil).
	Flags *pflag.FlagSet
}

// Load resolves the configuration and validates the logging settings.
// Connection settings are validated separately by ValidateConnection so
// commands that never talk to storage can run without credentials.
//
// Order of precedence (highest to lowest): flags > env > env files > profile > defaults
func Load(opts Options) (*Config, error) {
	v := viper.New()

	// 1. Defaults, then the selected profile
	setDefaults(v)
	applyProfile(v, opts.Profile)

	// 2. Dotenv files
	if err := readEnvFiles(v, opts.EnvFiles); err != nil {
		return nil, err
	}

	// 3. Process environment
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// 4. Flags
	if opts.Flags != nil {
		bindFlags(v, opts.Flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate
	if err := validateStruct(&cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readEnvFiles(v *viper.Viper, files []string) error {
	explicit := len(files) > 0
	if !explicit {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}
		files = []string{DefaultEnvFile}
	}

	v.SetConfigType("env")
	for i, f := range files {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("read env file %s: %w", f, err)
		}
		v.SetConfigFile(f)

		var err error
		if i == 0 {
			err = v.ReadInConfig()
		} else {
			err = v.MergeInConfig()
		}
		if err != nil {
			return fmt.Errorf("read env file %s: %w", f, err)
		}
	}
	return nil
}

// ValidateConnection checks that the endpoint and credentials are usable.
func (c *Config) ValidateConnection() error {
	return validateStruct(&c.Connection)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validateStruct runs the validator and rewrites its errors so each one
// names the environment variable a user would set.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingConfig, fe.Field()))
		case "oneof":
			errs = append(errs, fmt.Errorf("%w: %s must be one of %s, got %q",
				ErrInvalidConfig, fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value()))
		case "url":
			errs = append(errs, fmt.Errorf("%w: %s must be a URL, got %q", ErrInvalidConfig, fe.Field(), fe.Value()))
		default:
			errs = append(errs, fmt.Errorf("%w: %s failed %s", ErrInvalidConfig, fe.Field(), fe.Tag()))
		}
	}
	return errors.Join(errs...)
}
