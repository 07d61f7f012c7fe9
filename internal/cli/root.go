package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/ralt/pypi-mirror/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrNoCommand is returned when the root command runs without a subcommand
var ErrNoCommand = errors.New("you must specify a command")

// commandTable lists the constructor of every subcommand
var commandTable = []func() *cobra.Command{
	NewListCmd,
	NewDownloadCmd,
	NewCreateCmd,
	NewDeleteCmd,
	NewWriteMetadataCmd,
	NewQueryCmd,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pypi-mirror",
		Short: "Build and maintain a partial PyPI mirror",
		Long: `pypi-mirror downloads Python distributions with pip, reads the
metadata of every archive and generates a static simple index that pip
can use as --index-url.

Supported archives:
  - wheels (.whl)
  - source distributions (.zip, .tar.gz, .tar.bz2)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigFile(cmd); err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Help()
			return ErrNoCommand
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("print-traceback", false, "Print the stack trace of errors")
	rootCmd.PersistentFlags().String("config", "", "Read default flag values from a YAML or TOML file")

	for _, newCmd := range commandTable {
		rootCmd.AddCommand(newCmd())
	}

	return rootCmd
}

// applyConfigFile fills flags the user did not set from --config
func applyConfigFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if err := applyValues(cmd.Flags(), cfg.Global()); err != nil {
		return err
	}
	return applyValues(cmd.Flags(), cfg.Values(cmd.Name()))
}

func applyValues(flags *pflag.FlagSet, values map[string][]string) error {
	for name, vs := range values {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		for _, v := range vs {
			if err := flags.Set(name, v); err != nil {
				return fmt.Errorf("invalid config value for %s: %w", name, err)
			}
		}
		logrus.Debugf("Using %s=%v from config file", name, vs)
	}
	return nil
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// ReportError prints the failure of cmd. With --print-traceback the stack
// recorded where the error was created is printed too.
func ReportError(w io.Writer, cmd *cobra.Command, err error) {
	if cmd == nil || !cmd.HasParent() {
		fmt.Fprintf(w, "%v\n", err)
		if cmd != nil && !errors.Is(err, ErrNoCommand) {
			fmt.Fprintf(w, "Run '%s --help' for usage.\n", cmd.CommandPath())
		}
		return
	}

	fmt.Fprintf(w, "Failed to execute command %q: %v\n", cmd.Name(), err)

	printTraceback, _ := cmd.Flags().GetBool("print-traceback")
	if !printTraceback {
		fmt.Fprintln(w, "To get further information re-run the command with --print-traceback")
		return
	}

	var st stackTracer
	if errors.As(err, &st) {
		fmt.Fprintf(w, "%+v\n", st.StackTrace())
	}
}

// ensureDownloadDir creates the download directory if needed
func ensureDownloadDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
