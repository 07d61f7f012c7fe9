// Package config reads optional default flag values from a YAML or TOML
// file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds defaults for command flags. Keys are the long flag names.
type Config struct {
	Verbose        bool   `yaml:"verbose" toml:"verbose"`
	PrintTraceback bool   `yaml:"print-traceback" toml:"print-traceback"`
	DownloadDir    string `yaml:"download-dir" toml:"download-dir"`
	MirrorDir      string `yaml:"mirror-dir" toml:"mirror-dir"`
	Copy           bool   `yaml:"copy" toml:"copy"`

	Download DownloadConfig `yaml:"download" toml:"download"`
	Signing  SigningConfig  `yaml:"signing" toml:"signing"`
	Query    QueryConfig    `yaml:"query" toml:"query"`
}

// DownloadConfig holds defaults of the download command
type DownloadConfig struct {
	IndexURL         string   `yaml:"index-url" toml:"index-url"`
	Proxy            string   `yaml:"proxy" toml:"proxy"`
	PipExecutable    string   `yaml:"pip-executable" toml:"pip-executable"`
	Binary           bool     `yaml:"binary" toml:"binary"`
	KeepGoing        bool     `yaml:"keep-going" toml:"keep-going"`
	Platforms        []string `yaml:"platform" toml:"platform"`
	PythonVersion    string   `yaml:"python-version" toml:"python-version"`
	Implementation   string   `yaml:"implementation" toml:"implementation"`
	ABIs             []string `yaml:"abi" toml:"abi"`
	NoBuildIsolation bool     `yaml:"no-build-isolation" toml:"no-build-isolation"`
}

// SigningConfig holds the page signing key used by create and delete
type SigningConfig struct {
	GPGKey        string `yaml:"gpg-key" toml:"gpg-key"`
	GPGPassphrase string `yaml:"gpg-passphrase" toml:"gpg-passphrase"`
}

// QueryConfig holds defaults of the query command
type QueryConfig struct {
	URL          string `yaml:"url" toml:"url"`
	Filter       string `yaml:"filter" toml:"filter"`
	OutputFormat string `yaml:"output-format" toml:"output-format"`
}

// Load reads a config file. Files ending in .toml are TOML, anything else
// is YAML. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Global returns the values of flags shared by every command
func (c *Config) Global() map[string][]string {
	values := make(map[string][]string)
	setBool(values, "verbose", c.Verbose)
	setBool(values, "print-traceback", c.PrintTraceback)
	return values
}

// Values returns the flag values the file sets for a command, keyed by
// long flag name.
func (c *Config) Values(command string) map[string][]string {
	values := make(map[string][]string)

	if command != "query" {
		setString(values, "download-dir", c.DownloadDir)
	}

	switch command {
	case "create", "delete":
		setString(values, "mirror-dir", c.MirrorDir)
		setBool(values, "copy", c.Copy)
		setString(values, "gpg-key", c.Signing.GPGKey)
		setString(values, "gpg-passphrase", c.Signing.GPGPassphrase)
	}

	switch command {
	case "download":
		d := c.Download
		setString(values, "index-url", d.IndexURL)
		setString(values, "proxy", d.Proxy)
		setString(values, "pip-executable", d.PipExecutable)
		setBool(values, "binary", d.Binary)
		setBool(values, "keep-going", d.KeepGoing)
		setStrings(values, "platform", d.Platforms)
		setString(values, "python-version", d.PythonVersion)
		setString(values, "implementation", d.Implementation)
		setStrings(values, "abi", d.ABIs)
		setBool(values, "no-build-isolation", d.NoBuildIsolation)
	case "query":
		setString(values, "url", c.Query.URL)
		setString(values, "filter", c.Query.Filter)
		setString(values, "output-format", c.Query.OutputFormat)
	}

	return values
}

func setString(values map[string][]string, name, v string) {
	if v != "" {
		values[name] = []string{v}
	}
}

func setBool(values map[string][]string, name string, v bool) {
	if v {
		values[name] = []string{strconv.FormatBool(v)}
	}
}

func setStrings(values map[string][]string, name string, v []string) {
	if len(v) > 0 {
		values[name] = v
	}
}
