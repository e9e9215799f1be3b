package main

import (
	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
)

func newUploadCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "upload <bucket> <local-file> [object-key]",
		Short: "Upload a file to a bucket",
		Long: `Upload a local file to a bucket.

The object key defaults to the file's base name. The content type is
detected from the extension or the file contents unless --content-type
is given. Large files are uploaded in parts.

Examples:
  r2ctl upload media ./report.pdf
  r2ctl upload media ./report.pdf docs/2024/report.pdf
  r2ctl upload media ./data.bin --content-type application/x-custom`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := r2ctl.UploadOptions{
				Bucket:      args[0],
				LocalPath:   args[1],
				ContentType: contentType,
			}
			if len(args) > 2 {
				opts.Key = args[2]
			}
			return runUpload(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "content type to store (default: detected)")
	return cmd
}

func runUpload(cmd *cobra.Command, opts r2ctl.UploadOptions) error {
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}
	client, err := s.client(cmd.Context())
	if err != nil {
		return err
	}

	result, err := r2ctl.NewUploader(client, s.actionOptions()...).Upload(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return s.formatter.FormatUpload(s.stdout, result)
}
