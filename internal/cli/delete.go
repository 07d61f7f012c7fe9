package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ralt/pypi-mirror/internal/catalog"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	var mirrorConfig models.MirrorConfig
	var config models.DeleteConfig

	cmd := &cobra.Command{
		Use:   "delete PKG",
		Short: "Delete a package, use at your own risk!",
		Long: `Removes the archives of a package from the download directory and
the mirror, then regenerates the mirror. PKG is the display name shown by
the list command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Package = args[0]
			if cmd.Flags().Changed("keep-latest") && config.KeepLatest < 0 {
				return models.NewError(models.ErrInvalidConfig, "", fmt.Errorf("--keep-latest must not be negative"))
			}
			return runDelete(cmd.Context(), cmd.OutOrStdout(), &mirrorConfig, &config)
		},
	}

	addMirrorFlags(cmd, &mirrorConfig)
	cmd.Flags().StringVarP(&config.Version, "version", "v", "", "Remove only this version")
	cmd.Flags().IntVarP(&config.KeepLatest, "keep-latest", "k", -1, "Remove all versions but the latest N")
	cmd.Flags().BoolVar(&config.NoMirrorUpdate, "no-mirror-update", false, "Do not update the mirror")
	cmd.Flags().BoolVar(&config.DryRun, "dry-run", false, "Do not remove anything, just show what would be done")
	cmd.MarkFlagsMutuallyExclusive("version", "keep-latest")

	return cmd
}

func runDelete(ctx context.Context, w io.Writer, mirrorConfig *models.MirrorConfig, config *models.DeleteConfig) error {
	if err := ensureDownloadDir(mirrorConfig.DownloadDir); err != nil {
		return models.NewError(models.ErrFileOp, mirrorConfig.DownloadDir, err)
	}

	builder, err := newBuilder(mirrorConfig)
	if err != nil {
		return err
	}

	artifacts, err := catalog.New().Load(ctx, mirrorConfig.DownloadDir, true)
	if err != nil {
		return err
	}

	removed, err := builder.Prune(ctx, mirrorConfig, config, artifacts)
	if err != nil {
		return err
	}

	for _, a := range removed {
		if config.DryRun {
			fmt.Fprintf(w, "Remove %q\n", a.Path)
		} else {
			logrus.Infof("Removed %s", a.Path)
		}
	}
	return nil
}
