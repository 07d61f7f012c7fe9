package main

import (
	"os"

	"github.com/ralt/pypi-mirror/internal/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	rootCmd := cli.NewRootCmd()
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		cli.ReportError(os.Stderr, cmd, err)
		os.Exit(1)
	}
}
