package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chino-io/chino-go/internal/blob"
	"github.com/chino-io/chino-go/internal/output"
)

// NewBlobsCmd creates the blobs command group.
func NewBlobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blobs",
		Short: "Upload and download binary blobs",
	}

	cmd.AddCommand(
		newBlobsUploadCmd(),
		newBlobsDownloadCmd(),
		newBlobsDeleteCmd(),
	)

	return cmd
}

func newBlobsUploadCmd() *cobra.Command {
	var documentID, field string
	var parallel int

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files as blobs attached to a document field",
		Long:  "Upload one or more files in chunks. Each file is an independent upload session; uploads run concurrently and every commit is verified against the local digest.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if documentID == "" || field == "" {
				return output.ErrUsage("--document and --field are required")
			}
			if parallel < 1 {
				parallel = 1
			}

			var mu sync.Mutex
			handles := make(map[string]*blob.Handle, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(parallel)
			for _, path := range args {
				path := path // per-iteration copy; required while go.mod targets go < 1.22
				g.Go(func() error {
					var handle *blob.Handle
					err := withRetry(ctx, app, func(ctx context.Context) error {
						var err error
						handle, err = app.Blob.Upload(ctx, documentID, field, path)
						return err
					})
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					mu.Lock()
					handles[filepath.Base(path)] = handle
					mu.Unlock()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			return app.Output.OK(handles, fmt.Sprintf("Uploaded %d blobs", len(handles)))
		},
	}

	cmd.Flags().StringVarP(&documentID, "document", "d", "", "Document the blobs belong to")
	cmd.Flags().StringVarP(&field, "field", "f", "", "Blob field of the document schema")
	cmd.Flags().IntVar(&parallel, "parallel", 3, "Maximum concurrent uploads")
	return cmd
}

func newBlobsDownloadCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <blob-id>",
		Short: "Download a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			filename, data, err := app.Blob.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			// The server-suggested name is untrusted input; keep only its
			// base so it cannot point outside the working directory.
			filename = filepath.Base(filename)
			if filename == "." || filename == ".." || filename == string(filepath.Separator) {
				filename = args[0]
			}
			if outPath != "" {
				filename = outPath
			}
			if err := os.WriteFile(filename, data, 0o644); err != nil {
				return err
			}

			return app.Output.OK(map[string]any{
				"blob_id": args[0],
				"file":    filename,
				"bytes":   len(data),
			}, fmt.Sprintf("Downloaded %d bytes to %s", len(data), filename))
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this path instead of the server-suggested name")
	return cmd
}

func newBlobsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <blob-id>",
		Short: "Delete a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Blob.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"blob_id": args[0],
				"status":  "deleted",
			}, "Deleted blob "+args[0])
		},
	}
}
