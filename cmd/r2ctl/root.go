package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
	"github.com/sagarc03/r2ctl/config"
)

// Environment variables that select the profile file and profile.
const (
	envConfigPath = "R2_CONFIG"
	envProfile    = "R2_PROFILE"
)

// cli holds what one invocation needs from the outside world.
type cli struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	factory r2ctl.ClientFactory
	// confirm asks a yes/no question. nil uses an interactive prompt.
	confirm confirmFunc
	// now stamps log file names. nil uses time.Now.
	now func() time.Time

	session *session
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "r2ctl",
		Version: version,
		Short:   "Client for Cloudflare R2 and other S3-compatible object storage",
		Long: `r2ctl - Client for Cloudflare R2 and other S3-compatible object storage

Connection settings are read from (lowest to highest precedence):
  - the selected profile in ~/.r2ctl/config.yaml
  - a .env file in the working directory (or --env-file)
  - ENDPOINT_URL, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, R2_REGION
  - command line flags

Regions: wnam, enam, weur, eeur, apac, auto (default).`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.String("endpoint", "", "storage endpoint URL (env: ENDPOINT_URL)")
	flags.StringP("access-key", "a", "", "access key ID (env: AWS_ACCESS_KEY_ID)")
	flags.StringP("secret-key", "k", "", "secret access key (env: AWS_SECRET_ACCESS_KEY)")
	flags.StringP("region", "r", string(r2ctl.RegionAuto), "region: wnam, enam, weur, eeur, apac, auto (env: R2_REGION)")
	flags.String("log-level", "warn", "console log level: debug, info, warn, error (env: R2_LOG_LEVEL)")
	flags.String("log-dir", "", "write a JSON log file per command to this directory (env: R2_LOG_DIR)")
	flags.StringSlice("env-file", nil, "dotenv file(s) to load (default: .env if present)")
	flags.StringP("config", "c", "", "profile file (default: ~/.r2ctl/config.yaml, env: R2_CONFIG)")
	flags.StringP("profile", "p", "", "profile name (default: the default profile, env: R2_PROFILE)")
	flags.Bool("json", false, "output as JSON")
	flags.BoolP("quiet", "q", false, "suppress non-essential output")

	root.AddCommand(
		newListCmd(),
		newCreateCmd(),
		newUploadCmd(),
		newDownloadCmd(),
		newDeleteCmd(),
		newAbortCmd(),
		newConfigureCmd(),
	)
	return root
}

// setup resolves configuration and logging for the command about to run
// and stores the resulting session in the command context.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	jsonOutput, _ := flags.GetBool("json")
	quiet, _ := flags.GetBool("quiet")
	envFiles, _ := flags.GetStringSlice("env-file")

	configPath, explicitPath := flagOrEnv(cmd, "config", envConfigPath)
	if configPath == "" {
		configPath = clientcli.DefaultConfigPath()
	}
	profileName, _ := flagOrEnv(cmd, "profile", envProfile)

	var profile *clientcli.Profile
	if !isConfigureCmd(cmd) {
		var err error
		profile, err = selectProfile(configPath, explicitPath, profileName)
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(config.Options{
		EnvFiles: envFiles,
		Profile:  profile,
		Flags:    flags,
	})
	if err != nil {
		return err
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	logger, logFile, err := setupLogging(c.stderr, loggingOptions{
		Level:   cfg.Log.Level,
		Dir:     cfg.Log.Dir,
		Command: commandName(cmd),
		Now:     now(),
	})
	if err != nil {
		return err
	}

	if profile != nil {
		logger.Debug("using profile", "profile", profile.Name, "path", configPath)
	}
	logger.Debug("configuration loaded", "connection", cfg.Connection)

	var progress io.Writer = c.stderr
	if jsonOutput || quiet {
		progress = nil
	}

	confirm := c.confirm
	if confirm == nil {
		confirm = promptConfirm(c.stdin, c.stdout)
	}

	c.session = &session{
		cfg:        cfg,
		logger:     logger,
		logFile:    logFile,
		cache:      r2ctl.NewClientCache(c.factory, r2ctl.WithCacheLogger(logger)),
		formatter:  clientcli.NewFormatter(jsonOutput, quiet),
		configPath: configPath,
		stdin:      c.stdin,
		stdout:     c.stdout,
		progress:   progress,
		confirm:    confirm,
	}
	cmd.SetContext(withSession(cmd.Context(), c.session))
	return nil
}

// flagOrEnv returns the flag value when set, otherwise the environment
// variable. The bool reports whether the user chose the value.
func flagOrEnv(cmd *cobra.Command, flag, env string) (string, bool) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String(), true
	}
	if v := os.Getenv(env); v != "" {
		return v, true
	}
	return "", false
}

// selectProfile loads the named profile, or the default one when name is
// empty. A missing default profile file is not an error.
func selectProfile(path string, explicitPath bool, name string) (*clientcli.Profile, error) {
	var (
		cfgFile *clientcli.ConfigFile
		err     error
	)
	if explicitPath {
		cfgFile, err = clientcli.LoadConfigFile(path)
	} else {
		cfgFile, err = clientcli.LoadOrEmptyConfigFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	if len(cfgFile.Profiles) == 0 {
		if name != "" {
			return nil, fmt.Errorf("%w: %s", clientcli.ErrProfileNotFound, name)
		}
		return nil, nil
	}
	return cfgFile.GetProfile(name)
}

func isConfigureCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "configure" {
			return true
		}
	}
	return false
}

// commandName names the log file for cmd, e.g. "configure-add".
func commandName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, "-")
}

