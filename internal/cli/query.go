package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/pypi"
	"github.com/spf13/cobra"
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	var config models.QueryConfig

	cmd := &cobra.Command{
		Use:   "query PKG",
		Short: "Query PyPI to retrieve the versions of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Package = args[0]
			if cmd.Flags().Changed("latest") && config.Latest < 0 {
				return models.NewError(models.ErrInvalidConfig, "", fmt.Errorf("--latest must not be negative"))
			}
			return runQuery(cmd.Context(), cmd.OutOrStdout(), &config)
		},
	}

	cmd.Flags().StringVarP(&config.Filter, "filter", "f", pypi.DefaultFilter, "Retrieve only versions matching this regular expression")
	cmd.Flags().IntVarP(&config.Latest, "latest", "l", -1, "Retrieve only the latest N versions")
	cmd.Flags().StringVarP(&config.URL, "url", "u", pypi.DefaultURL, "Query URL to use")
	cmd.Flags().StringVarP(&config.OutputFormat, "output-format", "o", "oneline", "Output format (oneline, json)")

	return cmd
}

func runQuery(ctx context.Context, w io.Writer, config *models.QueryConfig) error {
	if config.OutputFormat != "oneline" && config.OutputFormat != "json" {
		return models.NewError(models.ErrInvalidConfig, "", fmt.Errorf("invalid output format %q, expected oneline or json", config.OutputFormat))
	}

	filter, err := pypi.CompileFilter(config.Filter)
	if err != nil {
		return err
	}

	versions, err := pypi.NewClient(config.URL).Versions(ctx, config.Package)
	if err != nil {
		return err
	}

	selected := pypi.SelectVersions(versions, filter, config.Latest)

	if config.OutputFormat == "json" {
		if selected == nil {
			selected = []string{}
		}
		return json.NewEncoder(w).Encode(selected)
	}

	for _, v := range selected {
		fmt.Fprintln(w, v)
	}
	return nil
}
