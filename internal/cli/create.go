package cli

import (
	"context"

	"github.com/ralt/pypi-mirror/internal/catalog"
	"github.com/ralt/pypi-mirror/internal/mirror"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/signer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewCreateCmd creates the create command
func NewCreateCmd() *cobra.Command {
	var config models.MirrorConfig

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the mirror from the download directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), &config)
		},
	}

	addMirrorFlags(cmd, &config)

	return cmd
}

// addMirrorFlags binds the flags shared by commands writing the mirror
func addMirrorFlags(cmd *cobra.Command, config *models.MirrorConfig) {
	cmd.Flags().StringVarP(&config.DownloadDir, "download-dir", "d", "", "Download directory")
	cmd.Flags().StringVarP(&config.MirrorDir, "mirror-dir", "m", "", "Mirror directory")
	cmd.Flags().BoolVarP(&config.Copy, "copy", "c", false, "Copy packages into the mirror instead of symlinking them")
	cmd.Flags().StringVar(&config.GPGKeyPath, "gpg-key", "", "Path to a GPG private key used to sign index pages")
	cmd.Flags().StringVar(&config.GPGPassphrase, "gpg-passphrase", "", "GPG key passphrase")
	cmd.MarkFlagRequired("download-dir")
	cmd.MarkFlagRequired("mirror-dir")
}

// newBuilder creates a mirror builder, signing pages when a key is set
func newBuilder(config *models.MirrorConfig) (*mirror.Builder, error) {
	if config.GPGKeyPath == "" {
		return mirror.NewBuilder(nil), nil
	}

	logrus.Debugf("Loading GPG key from %s", config.GPGKeyPath)
	s, err := signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
	if err != nil {
		return nil, models.NewError(models.ErrSigning, config.GPGKeyPath, err)
	}
	return mirror.NewBuilder(s), nil
}

func runCreate(ctx context.Context, config *models.MirrorConfig) error {
	if err := ensureDownloadDir(config.DownloadDir); err != nil {
		return models.NewError(models.ErrFileOp, config.DownloadDir, err)
	}

	builder, err := newBuilder(config)
	if err != nil {
		return err
	}

	artifacts, err := catalog.New().Load(ctx, config.DownloadDir, false)
	if err != nil {
		return err
	}

	return builder.Generate(ctx, config, artifacts)
}
