package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/ralt/pypi-mirror/internal/catalog"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/version"
	"github.com/spf13/cobra"
)

type packageVersions struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var config models.ListConfig

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List downloaded packages and their versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd.OutOrStdout(), &config)
		},
	}

	cmd.Flags().StringVarP(&config.DownloadDir, "download-dir", "d", "", "Download directory")
	cmd.Flags().BoolVar(&config.NameOnly, "name-only", false, "List only the names of the packages")
	cmd.Flags().StringVarP(&config.Name, "name", "n", "", "List only the versions of this package")
	cmd.Flags().BoolVarP(&config.JSON, "json", "j", false, "JSON output")
	cmd.MarkFlagRequired("download-dir")

	return cmd
}

func runList(ctx context.Context, w io.Writer, config *models.ListConfig) error {
	if err := ensureDownloadDir(config.DownloadDir); err != nil {
		return models.NewError(models.ErrFileOp, config.DownloadDir, err)
	}

	artifacts, err := catalog.New().Load(ctx, config.DownloadDir, true)
	if err != nil {
		return err
	}

	var packages []packageVersions
	for _, g := range catalog.GroupByName(artifacts) {
		if config.Name != "" && g.Name != config.Name {
			continue
		}
		packages = append(packages, packageVersions{
			Name:     g.Name,
			Versions: version.Unique(g.Versions()),
		})
	}

	if config.JSON {
		if packages == nil {
			packages = []packageVersions{}
		}
		return json.NewEncoder(w).Encode(packages)
	}

	heading := color.New(color.Bold)
	for _, p := range packages {
		heading.Fprintln(w, p.Name)
		if config.Name == "" && config.NameOnly {
			continue
		}
		for _, v := range p.Versions {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}
	return nil
}
