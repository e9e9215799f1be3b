package main

import (
	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
)

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <bucket> <object-key> [local-file]",
		Short: "Download an object to a local file",
		Long: `Download an object to a local file.

The local file defaults to the key's base name in the current directory.
The file is written atomically: an interrupted download leaves any
existing file untouched.

Examples:
  r2ctl download media docs/report.pdf
  r2ctl download media docs/report.pdf ./out/report.pdf`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := r2ctl.DownloadOptions{
				Bucket: args[0],
				Key:    args[1],
			}
			if len(args) > 2 {
				opts.LocalPath = args[2]
			}
			return runDownload(cmd, opts)
		},
	}
}

func runDownload(cmd *cobra.Command, opts r2ctl.DownloadOptions) error {
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}
	client, err := s.client(cmd.Context())
	if err != nil {
		return err
	}

	result, err := r2ctl.NewDownloader(client, s.actionOptions()...).Download(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return s.formatter.FormatDownload(s.stdout, result)
}
