package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/version"
)

func newVersionCommand(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			logger.New(o.stdout, o.stderr, false, false).Infof("%s+%s", version.Version, version.Commit)
		},
	}
}
