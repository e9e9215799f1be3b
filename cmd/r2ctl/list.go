package main

import (
	"github.com/spf13/cobra"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
)

func newListCmd() *cobra.Command {
	var args clientcli.ListArgs

	cmd := &cobra.Command{
		Use:   "list [bucket]",
		Short: "List buckets, objects, or multipart uploads",
		Long: `List buckets, objects in a bucket, or in-progress multipart uploads.

Examples:
  r2ctl list --buckets
  r2ctl list --buckets --with-region
  r2ctl list media
  r2ctl list media --prefix images/
  r2ctl list media --multipart`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			if len(positional) > 0 {
				args.Bucket = positional[0]
			}
			return runList(cmd, args)
		},
	}

	cmd.Flags().BoolVar(&args.Buckets, "buckets", false, "list all buckets")
	cmd.Flags().BoolVar(&args.WithRegion, "with-region", false, "include each bucket's region (with --buckets)")
	cmd.Flags().BoolVar(&args.Multipart, "multipart", false, "list in-progress multipart uploads in the bucket")
	cmd.Flags().StringVar(&args.Prefix, "prefix", "", "only list objects whose key starts with this prefix")
	return cmd
}

func runList(cmd *cobra.Command, args clientcli.ListArgs) error {
	mode, err := args.Mode()
	if err != nil {
		return err
	}

	s, err := sessionFromContext(cmd.Context())
	if err != nil {
		return err
	}
	client, err := s.client(cmd.Context())
	if err != nil {
		return err
	}
	lister := r2ctl.NewLister(client, s.actionOptions()...)

	switch mode {
	case clientcli.ListBuckets:
		buckets, err := lister.ListBuckets(cmd.Context(), args.WithRegion)
		if err != nil {
			return err
		}
		return s.formatter.FormatBuckets(s.stdout, buckets, args.WithRegion)
	case clientcli.ListMultipart:
		uploads, err := lister.ListMultipartUploads(cmd.Context(), args.Bucket)
		if err != nil {
			return err
		}
		return s.formatter.FormatMultipartUploads(s.stdout, args.Bucket, uploads)
	default:
		objects, err := lister.ListObjects(cmd.Context(), args.Bucket, args.Prefix)
		if err != nil {
			return err
		}
		return s.formatter.FormatObjects(s.stdout, args.Bucket, args.Prefix, objects)
	}
}
