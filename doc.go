// Package r2ctl provides the session and transfer layer of a command-line
// client for S3-compatible object storage such as Cloudflare R2.
//
// The package wraps an aws-sdk-go-v2 S3 client with three pieces that every
// command shares: a keyed client cache, a flat error type, and a transfer
// observer that reports progress for uploads and downloads through one
// interface.
//
// # Key Components
//
//   - ClientCache: maps a ConnectionKey to a single reusable S3API handle
//   - ActionError: the only error kind returned by action operations
//   - TransferObserver: progress hook with Report and Close
//   - Uploader, Downloader, Lister, Creator, Deleter, Aborter: one type per verb
//
// # Example Usage
//
//	cache := r2ctl.NewClientCache(r2ctl.NewS3Client, r2ctl.WithCacheLogger(logger))
//
//	key := r2ctl.NewConnectionKey(endpoint, accessKey, secretKey, r2ctl.RegionAuto)
//	client, err := cache.Get(ctx, key)
//	if err != nil {
//	    return err
//	}
//
//	uploader := r2ctl.NewUploader(client, r2ctl.WithLogger(logger))
//	result, err := uploader.Upload(ctx, r2ctl.UploadOptions{
//	    LocalPath: "report.pdf",
//	    Bucket:    "documents",
//	})
//
// # Regions
//
// The region "auto" lets the service route requests itself. It is always
// normalized to "no explicit region" before it becomes part of a
// ConnectionKey or reaches the SDK.
package r2ctl
