// Package config resolves connection and logging settings for r2ctl.
//
// Values come from a saved profile, dotenv files, the process environment
// and CLI flags, merged with viper and validated with go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. The selected profile (see clientcli.ConfigFile)
//  3. Dotenv file(s), .env by default, merged left-to-right
//  4. Environment variables
//  5. CLI flags that were explicitly set
//
// # Usage
//
//	cfg, err := config.Load(config.Options{Flags: cmd.Flags()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ValidateConnection(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
//   - ENDPOINT_URL (--endpoint), required
//   - AWS_ACCESS_KEY_ID (--access-key), required
//   - AWS_SECRET_ACCESS_KEY (--secret-key), required
//   - R2_REGION (--region): wnam, enam, weur, eeur, apac or auto (default)
//   - R2_LOG_LEVEL (--log-level): debug, info, warn (default) or error
//   - R2_LOG_DIR (--log-dir): directory for per-command JSON log files
//
// # Validation
//
// Errors name the environment variable to set, for example
// "missing required configuration: ENDPOINT_URL". Connection settings are
// checked by ValidateConnection so profile management works without
// credentials.
package config
