// Package download fetches distribution archives with pip.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// Options describes one pip download invocation
type Options struct {
	Dest             string
	IndexURL         string
	Proxy            string
	AllowBinary      bool
	Platforms        []string
	PythonVersion    string
	Implementation   string
	ABIs             []string
	NoBuildIsolation bool
	Pip              string
}

// constrained reports whether wheel compatibility constraints are set,
// which only binary distributions can satisfy
func (o Options) constrained() bool {
	return len(o.Platforms) > 0 || o.PythonVersion != "" || o.Implementation != "" || len(o.ABIs) > 0
}

// Args builds the pip command line for pkgs and requirement files reqs
func (o Options) Args(pkgs, reqs []string) []string {
	pip := o.Pip
	if pip == "" {
		pip = "pip"
	}

	args := []string{pip, "download", "-d", o.Dest}
	if o.IndexURL != "" {
		args = append(args, "--index-url", o.IndexURL)
	}
	if o.Proxy != "" {
		args = append(args, "--proxy", o.Proxy)
	}
	if !o.AllowBinary && !o.constrained() {
		args = append(args, "--no-binary", ":all:")
	}
	if o.constrained() {
		args = append(args, "--only-binary", ":all:")
	}
	for _, p := range o.Platforms {
		args = append(args, "--platform", p)
	}
	if o.PythonVersion != "" {
		args = append(args, "--python-version", o.PythonVersion)
	}
	if o.Implementation != "" {
		args = append(args, "--implementation", o.Implementation)
	}
	for _, a := range o.ABIs {
		args = append(args, "--abi", a)
	}
	if o.NoBuildIsolation {
		args = append(args, "--no-build-isolation")
	}
	for _, r := range reqs {
		args = append(args, "-r", r)
	}
	return append(args, pkgs...)
}

// Downloader runs pip
type Downloader struct {
	opts Options

	// Stdout and Stderr receive the output of pip
	Stdout io.Writer
	Stderr io.Writer

	// Progress receives the keep-going progress bar; nil disables it
	Progress io.Writer
}

// NewDownloader creates a downloader writing to the process output
func NewDownloader(opts Options) *Downloader {
	return &Downloader{
		opts:     opts,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Progress: os.Stderr,
	}
}

// Run downloads pkgs and the requirement files reqs in one pip invocation.
// The subject of a failure is the packages, or the requirement files when
// no package is given.
func (d *Downloader) Run(pkgs, reqs []string) error {
	subject := strings.Join(pkgs, " ")
	if subject == "" {
		subject = strings.Join(reqs, " ")
	}
	return d.run(subject, d.opts.Args(pkgs, reqs))
}

func (d *Downloader) run(subject string, args []string) error {
	logrus.Debugf("Running %s", strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	if err := cmd.Run(); err != nil {
		return models.NewError(models.ErrDownload, subject, fmt.Errorf("%s failed: %w", args[0], err))
	}
	return nil
}

// RunKeepGoing downloads each package, then each requirement file, in its
// own pip invocation. Failures are logged and collected; the remaining
// downloads still run.
func (d *Downloader) RunKeepGoing(ctx context.Context, pkgs, reqs []string) ([]error, error) {
	var bar *progressbar.ProgressBar
	if d.Progress != nil {
		bar = progressbar.NewOptions(len(pkgs)+len(reqs),
			progressbar.OptionSetDescription("Downloading"),
			progressbar.OptionSetWriter(d.Progress),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(50),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(d.Progress)
			}),
		)
	}

	var failures []error
	step := func(subject, what string, args []string) {
		if err := d.run(subject, args); err != nil {
			logrus.Errorf("Failed to download %s %q: %v", what, subject, err)
			failures = append(failures, err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		step(pkg, "package", d.opts.Args([]string{pkg}, nil))
	}

	for _, r := range reqs {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		step(r, "requirements from", d.opts.Args(nil, []string{r}))
	}

	return failures, nil
}
