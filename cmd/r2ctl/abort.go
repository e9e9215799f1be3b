package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
)

func newAbortCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "abort <bucket> <object-key> <upload-id>",
		Short: "Abort an in-progress multipart upload",
		Long: `Abort an in-progress multipart upload and discard its parts.

Use "r2ctl list <bucket> --multipart" to find upload IDs.

Examples:
  r2ctl abort media big.iso 2~fK3j...
  r2ctl abort media big.iso 2~fK3j... --yes`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAbort(cmd, args[0], args[1], args[2], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runAbort(cmd *cobra.Command, bucket, key, uploadID string, yes bool) error {
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}

	client, err := s.client(cmd.Context())
	if err != nil {
		return err
	}

	if !yes {
		ok, err := s.confirm(fmt.Sprintf(
			"Are you sure you want to abort the multipart upload '%s' for object '%s' in bucket '%s'?",
			uploadID, key, bucket))
		if err != nil {
			return err
		}
		if !ok {
			return s.formatter.FormatMessage(s.stdout, "Abortion cancelled.")
		}
	}

	if err := r2ctl.NewAborter(client, s.actionOptions()...).AbortMultipartUpload(cmd.Context(), bucket, key, uploadID); err != nil {
		return err
	}
	return s.formatter.FormatAction(s.stdout, clientcli.ActionResult{
		Action:   clientcli.ActionAbortUpload,
		Bucket:   bucket,
		Key:      key,
		UploadID: uploadID,
	})
}
