package cli

import (
	"github.com/ralt/pypi-mirror/internal/catalog"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/spf13/cobra"
)

// NewWriteMetadataCmd creates the write-metadata command
func NewWriteMetadataCmd() *cobra.Command {
	var downloadDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "write-metadata",
		Short: "Create metadata files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureDownloadDir(downloadDir); err != nil {
				return models.NewError(models.ErrFileOp, downloadDir, err)
			}
			return catalog.New().WriteMetadataFiles(cmd.Context(), downloadDir, overwrite)
		},
	}

	cmd.Flags().StringVarP(&downloadDir, "download-dir", "d", "", "Download directory")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "o", false, "Overwrite existing metadata files")
	cmd.MarkFlagRequired("download-dir")

	return cmd
}
