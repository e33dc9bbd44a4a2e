package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
)

// NewImagesCmd creates the image upload command group.
func NewImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image"},
		Short:   "Upload product and shop images",
	}

	cmd.AddCommand(newImagesUploadCmd())
	return cmd
}

func newImagesUploadCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload one or more image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return apperr.ErrUsage("cannot open " + args[0] + ": " + err.Error())
				}
				defer f.Close()

				url, err := a.Store.Images.Upload(cmd.Context(), filepath.Base(args[0]), f, folder)
				if err != nil {
					return err
				}
				return a.OK(map[string]string{"url": url}, "Uploaded "+filepath.Base(args[0]))
			}

			files := make([]api.NamedReader, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return apperr.ErrUsage("cannot open " + path + ": " + err.Error())
				}
				defer f.Close()
				files = append(files, api.NamedReader{Name: filepath.Base(path), Reader: f})
			}

			result, err := a.Store.Images.UploadMultiple(cmd.Context(), files, folder)
			if err != nil {
				return err
			}
			return a.OK(result, plural(result.UploadedCount, "file")+" uploaded")
		}),
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Target folder on the image host")
	return cmd
}
