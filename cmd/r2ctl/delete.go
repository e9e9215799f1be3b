package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
)

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <bucket> [object-key]",
		Short: "Delete an object, or a bucket when no key is given",
		Long: `Delete an object from a bucket. Without an object key the bucket
itself is deleted (it must be empty).

You are asked to confirm unless --yes is given.

Examples:
  r2ctl delete media docs/old.pdf
  r2ctl delete media --yes`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, key := args[0], ""
			if len(args) > 1 {
				key = args[1]
			}
			return runDelete(cmd, bucket, key, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runDelete(cmd *cobra.Command, bucket, key string, yes bool) error {
	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}

	client, err := s.client(cmd.Context())
	if err != nil {
		return err
	}

	label := fmt.Sprintf("Are you sure you want to delete the bucket '%s'?", bucket)
	if key != "" {
		label = fmt.Sprintf("Are you sure you want to delete the object '%s' from bucket '%s'?", key, bucket)
	}
	if !yes {
		ok, err := s.confirm(label)
		if err != nil {
			return err
		}
		if !ok {
			return s.formatter.FormatMessage(s.stdout, "Deletion cancelled.")
		}
	}

	deleter := r2ctl.NewDeleter(client, s.actionOptions()...)

	if key == "" {
		if err := deleter.DeleteBucket(cmd.Context(), bucket); err != nil {
			return err
		}
		return s.formatter.FormatAction(s.stdout, clientcli.ActionResult{Action: clientcli.ActionDeleteBucket, Bucket: bucket})
	}

	if err := deleter.DeleteObject(cmd.Context(), bucket, key); err != nil {
		return err
	}
	return s.formatter.FormatAction(s.stdout, clientcli.ActionResult{Action: clientcli.ActionDeleteObject, Bucket: bucket, Key: key})
}
