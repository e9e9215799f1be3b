package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
)

// connectionTestTimeout bounds the bucket listing used to check a new profile.
const connectionTestTimeout = 10 * time.Second

func newConfigureCmd() *cobra.Command {
	var showSecrets bool

	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Manage connection profiles",
		Long: `Manage connection profiles in the profile file.

Profiles save an endpoint, credentials and region so you can switch
between accounts with --profile or R2_PROFILE.

Profiles are stored in ~/.r2ctl/config.yaml`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all configured profiles",
		Long: `List all profiles configured in the profile file.

The default profile is marked with an asterisk (*).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigureList(cmd, showSecrets)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a profile",
		Long: `Add a profile interactively.

You will be prompted for:
  - Endpoint URL
  - Access key
  - Secret key
  - Region
  - Whether to set as default

The connection is tested by listing buckets before saving.`,
		Args: cobra.ExactArgs(1),
		RunE: runConfigureAdd,
	}

	removeCmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a profile",
		Args:    cobra.ExactArgs(1),
		RunE:    runConfigureRemove,
	}

	setDefaultCmd := &cobra.Command{
		Use:   "set-default <name>",
		Short: "Set the default profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigureSetDefault,
	}

	showCmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show profile details",
		Long: `Show details for a profile.

If no name is provided, shows the default profile.
Secrets are hidden by default; use --show-secrets to reveal them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigureShow(cmd, args, showSecrets)
		},
	}

	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	listCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")

	configureCmd.AddCommand(listCmd, addCmd, removeCmd, setDefaultCmd, showCmd)
	return configureCmd
}

func runConfigureList(cmd *cobra.Command, showSecrets bool) error {
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := clientcli.LoadOrEmptyConfigFile(s.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.Profiles) == 0 {
		if err := s.formatter.FormatProfileList(s.stdout, nil, "", showSecrets); err != nil {
			return err
		}
		if _, isJSON := s.formatter.(*clientcli.JSONFormatter); !isJSON {
			_, _ = fmt.Fprintln(s.stdout, "Run 'r2ctl configure add <name>' to create one.")
		}
		return nil
	}

	defaultName := ""
	if p, err := cfg.GetDefaultProfile(); err == nil {
		defaultName = p.Name
	}

	return s.formatter.FormatProfileList(s.stdout, cfg.Profiles, defaultName, showSecrets)
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := clientcli.LoadOrEmptyConfigFile(s.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	existing, _ := cfg.GetProfile(name)
	if existing != nil {
		ok, err := s.confirm(fmt.Sprintf("Profile '%s' already exists. Update it", name))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(s.stdout, "Cancelled.")
			return nil
		}
	}

	p := prompter{stdin: s.stdin, stdout: s.stdout}

	endpoint, err := p.text("Endpoint URL", defaultValue(existing, func(pr *clientcli.Profile) string { return pr.Endpoint }), validateEndpoint)
	if err != nil {
		return err
	}
	accessKey, err := p.text("Access Key", defaultValue(existing, func(pr *clientcli.Profile) string { return pr.AccessKey }), required("access key"))
	if err != nil {
		return err
	}
	secretKey, err := p.secret("Secret Key", required("secret key"))
	if err != nil {
		return err
	}
	region, err := p.region()
	if err != nil {
		return err
	}

	setAsDefault := len(cfg.Profiles) == 0 || (existing != nil && existing.Default)
	if !setAsDefault {
		if setAsDefault, err = s.confirm("Set as default profile"); err != nil {
			return err
		}
	}

	profile := clientcli.Profile{
		Name:      name,
		Endpoint:  strings.TrimSuffix(endpoint, "/"),
		AccessKey: accessKey,
		SecretKey: secretKey,
		Region:    string(region),
		Default:   setAsDefault,
	}

	_, _ = fmt.Fprint(s.stdout, "Testing connection... ")
	if connErr := testConnection(cmd.Context(), s, profile); connErr != nil {
		_, _ = fmt.Fprintln(s.stdout, "FAILED")
		_, _ = fmt.Fprintf(s.stdout, "Warning: could not list buckets: %v\n", connErr)

		ok, err := s.confirm("Save profile anyway")
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(s.stdout, "Cancelled.")
			return nil
		}
	} else {
		_, _ = fmt.Fprintln(s.stdout, "OK")
	}

	if err := saveProfile(cfg, profile, existing != nil); err != nil {
		return err
	}
	if err := cfg.Save(s.configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if existing != nil {
		_, _ = fmt.Fprintf(s.stdout, "Profile '%s' updated.\n", name)
	} else {
		_, _ = fmt.Fprintf(s.stdout, "Profile '%s' added.\n", name)
	}
	if setAsDefault {
		_, _ = fmt.Fprintln(s.stdout, "Set as default profile.")
	}
	return nil
}

// saveProfile adds or replaces p in cfg, keeping a single default.
func saveProfile(cfg *clientcli.ConfigFile, p clientcli.Profile, exists bool) error {
	if !exists {
		if err := cfg.AddProfile(p); err != nil {
			return fmt.Errorf("add profile: %w", err)
		}
		return nil
	}

	if err := cfg.UpdateProfile(p); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if p.Default {
		return cfg.SetDefault(p.Name)
	}
	return nil
}

// testConnection lists buckets with the profile's settings through the
// session's client cache.
func testConnection(ctx context.Context, s *session, p clientcli.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, connectionTestTimeout)
	defer cancel()

	region, err := r2ctl.ParseRegion(p.Region)
	if err != nil {
		return err
	}
	client, err := s.cache.Get(ctx, r2ctl.NewConnectionKey(p.Endpoint, p.AccessKey, p.SecretKey, region))
	if err != nil {
		return err
	}
	_, err = r2ctl.NewLister(client, r2ctl.WithLogger(s.logger)).ListBuckets(ctx, false)
	return err
}

func runConfigureRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := clientcli.LoadConfigFile(s.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err = cfg.GetProfile(name); err != nil {
		return err
	}

	ok, err := s.confirm(fmt.Sprintf("Remove profile '%s'", name))
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(s.stdout, "Cancelled.")
		return nil
	}

	if err := cfg.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}
	if err := cfg.Save(s.configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	_, _ = fmt.Fprintf(s.stdout, "Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := clientcli.LoadConfigFile(s.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.SetDefault(name); err != nil {
		return err
	}
	if err := cfg.Save(s.configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	_, _ = fmt.Fprintf(s.stdout, "Default profile set to '%s'.\n", name)
	return nil
}

func runConfigureShow(cmd *cobra.Command, args []string, showSecrets bool) error {
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := clientcli.LoadConfigFile(s.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := cfg.GetProfile(name)
	if err != nil {
		return err
	}

	// An empty name resolved to the default profile.
	isDefault := p.Default || name == ""

	return s.formatter.FormatProfileShow(s.stdout, *p, isDefault, showSecrets)
}

// prompter reads profile fields interactively.
type prompter struct {
	stdin  io.Reader
	stdout io.Writer
}

func (p prompter) text(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
		Stdin:    io.NopCloser(p.stdin),
		Stdout:   nopWriteCloser{p.stdout},
	}
	v, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(v), nil
}

func (p prompter) secret(label string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: validate,
		Stdin:    io.NopCloser(p.stdin),
		Stdout:   nopWriteCloser{p.stdout},
	}
	v, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(v), nil
}

func (p prompter) region() (r2ctl.Region, error) {
	sel := promptui.Select{
		Label:     "Region",
		Items:     r2ctl.Regions,
		CursorPos: len(r2ctl.Regions) - 1, // auto
		Stdin:     io.NopCloser(p.stdin),
		Stdout:    nopWriteCloser{p.stdout},
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", promptError(err)
	}
	return r2ctl.Regions[i], nil
}

func validateEndpoint(input string) error {
	if input == "" {
		return errors.New("endpoint URL is required")
	}
	parsedURL, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

func required(what string) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func defaultValue(p *clientcli.Profile, field func(*clientcli.Profile) string) string {
	if p == nil {
		return ""
	}
	return field(p)
}
