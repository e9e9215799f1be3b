// Package clientcli holds the presentation side of the r2ctl command line:
// saved connection profiles, list argument rules and output formatting.
//
// # Profiles
//
// Profiles are stored as YAML, by default in ~/.r2ctl/config.yaml:
//
//	cfgFile, err := clientcli.LoadOrEmptyConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := cfgFile.GetProfile("production")
//
// An empty profile name selects the default profile.
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatObjects(os.Stdout, bucket, prefix, objects)
//
// Empty listings render a distinct message (for example "No objects
// found.") in human mode and an empty array in JSON mode.
package clientcli
