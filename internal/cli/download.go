package cli

import (
	"context"

	"github.com/ralt/pypi-mirror/internal/catalog"
	"github.com/ralt/pypi-mirror/internal/download"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type downloadConfig struct {
	opts         download.Options
	keepGoing    bool
	requirements []string
}

// NewDownloadCmd creates the download command
func NewDownloadCmd() *cobra.Command {
	var config downloadConfig

	cmd := &cobra.Command{
		Use:   "download [PKG...]",
		Short: "Download packages and their dependencies",
		Long: `Runs pip download for the given packages and requirement files.
Without any, the packages already present in the download directory are
downloaded again to pick up new releases. Metadata files are written for
every new archive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), &config, args)
		},
	}

	o := &config.opts
	cmd.Flags().StringVarP(&o.Dest, "download-dir", "d", "", "Download directory")
	cmd.Flags().StringVarP(&o.IndexURL, "index-url", "i", "", "Base URL of the Python Package Index")
	cmd.Flags().StringVar(&o.Proxy, "proxy", "", "Proxy in the form [user:passwd@]proxy.server:port")
	cmd.Flags().StringVarP(&o.Pip, "pip-executable", "p", "pip", "pip executable to use")
	cmd.Flags().BoolVarP(&o.AllowBinary, "binary", "b", false, "Allow downloading binary packages")
	cmd.Flags().BoolVarP(&config.keepGoing, "keep-going", "k", false, "Keep going when pip fails to download a package")
	cmd.Flags().StringArrayVar(&o.Platforms, "platform", nil, "Only download wheels compatible with this platform (implies --binary)")
	cmd.Flags().StringVar(&o.PythonVersion, "python-version", "", "Only download wheels compatible with this Python version (implies --binary)")
	cmd.Flags().StringVar(&o.Implementation, "implementation", "", "Only download wheels compatible with this Python implementation (implies --binary)")
	cmd.Flags().StringArrayVar(&o.ABIs, "abi", nil, "Only download wheels compatible with this ABI (implies --binary)")
	cmd.Flags().BoolVar(&o.NoBuildIsolation, "no-build-isolation", false, "Disable isolation when building source distributions")
	cmd.Flags().StringArrayVarP(&config.requirements, "requirement", "r", nil, "Download the packages of this requirements file (repeatable)")
	cmd.MarkFlagRequired("download-dir")

	return cmd
}

func runDownload(ctx context.Context, config *downloadConfig, pkgs []string) error {
	dir := config.opts.Dest
	if err := ensureDownloadDir(dir); err != nil {
		return models.NewError(models.ErrFileOp, dir, err)
	}

	cat := catalog.New()

	if len(pkgs) == 0 && len(config.requirements) == 0 {
		names, err := cat.PackageNames(ctx, dir)
		if err != nil {
			return err
		}
		logrus.Infof("Refreshing %d packages of %s", len(names), dir)
		pkgs = names
	}

	d := download.NewDownloader(config.opts)
	switch {
	case len(pkgs) == 0 && len(config.requirements) == 0:
		logrus.Info("Nothing to download")
	case config.keepGoing:
		failures, err := d.RunKeepGoing(ctx, pkgs, config.requirements)
		if err != nil {
			return err
		}
		if len(failures) > 0 {
			logrus.Warnf("%d of %d downloads failed", len(failures), len(pkgs)+len(config.requirements))
		}
	default:
		if err := d.Run(pkgs, config.requirements); err != nil {
			return err
		}
	}

	return cat.WriteMetadataFiles(ctx, dir, false)
}
