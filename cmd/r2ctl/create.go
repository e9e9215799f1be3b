package main

import (
	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <bucket>",
		Short: "Create a bucket",
		Long: `Create a bucket. The --region flag (or R2_REGION) is sent as the
location hint; auto lets the service choose.

Examples:
  r2ctl create media
  r2ctl create media --region weur`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	bucket := args[0]

	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}
	client, err := s.client(cmd.Context())
	if err != nil {
		return err
	}
	region, err := r2ctl.ParseRegion(s.cfg.Connection.Region)
	if err != nil {
		return err
	}

	if err := r2ctl.NewCreator(client, s.actionOptions()...).CreateBucket(cmd.Context(), bucket, region); err != nil {
		return err
	}

	return s.formatter.FormatAction(s.stdout, clientcli.ActionResult{
		Action: clientcli.ActionCreateBucket,
		Bucket: bucket,
		Region: string(region),
	})
}
