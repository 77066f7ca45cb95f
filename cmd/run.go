package cmd

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/gh-reports/app-installation-report/api/installation"
	"github.com/gh-reports/app-installation-report/inventory"
	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/report"
	"github.com/gh-reports/app-installation-report/settings"
)

// run validates cfg, collects the installations of cfg.Org and writes the reports.
// Nothing touches the network before the configuration is valid.
func run(ctx context.Context, o *rootOpts, cfg settings.Config, log *logger.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Debug("Configuration:\n%s", cfg.String())

	client, err := installation.NewInstallationRestClient(cfg, log)
	if err != nil {
		return err
	}

	result, err := inventory.Process(ctx, client, log, cfg.Org)
	if err != nil {
		return err
	}
	printSummary(o.stdout, log, result)

	sink := report.NewOutputSink(o.fs, cfg, log)
	_, err = report.GenerateReports(o.fs, result, cfg.Output, sink, log)
	return err
}

func printSummary(w io.Writer, log *logger.Logger, result *inventory.ProcessedResult) {
	orgWide := make([]string, 0, len(result.OrgWideInstallations))
	for _, inst := range result.OrgWideInstallations {
		orgWide = append(orgWide, inst.AppName)
	}

	log.Infof("Organization: %s", result.OrgName)
	log.Infof("Organization-wide apps (%d): %s", len(orgWide), strings.Join(orgWide, ", "))
	log.Infof("Repository-specific apps (%d):", result.InstallationRepos.Len())
	if result.InstallationRepos.Len() == 0 {
		return
	}

	table := newSummaryTable(w)
	defer table.Render()
	for _, e := range result.InstallationRepos.Entries() {
		table.Append([]string{e.Key, strconv.Itoa(len(e.Values)), strings.Join(e.Values, ", ")})
	}
}

func newSummaryTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"App", "Repositories", "Names"})
	table.SetAutoWrapText(false)
	return table
}
