package report

import (
	"encoding/csv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/gh-reports/app-installation-report/errs"
	"github.com/gh-reports/app-installation-report/inventory"
	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/settings"
)

// Written is a report file produced by GenerateReports.
type Written struct {
	Key  string
	Path string
}

type recorder interface {
	Record() []string
}

type csvReport struct {
	key     string
	file    string
	header  []string
	records [][]string
}

func records[T recorder](rows []T) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out
}

// GenerateReports writes the three reports for result into out.Dir, creating the
// directory when needed, and reports each file's path to sink once it is written.
// The first failure stops the run; files written before it stay on disk.
func GenerateReports(fs afero.Fs, result *inventory.ProcessedResult, out settings.Output, sink OutputSink, log *logger.Logger) ([]Written, error) {
	written, err := generateReports(fs, result, out, sink, log)
	if err != nil {
		log.Error("Error writing CSV files: ", err)
		return written, err
	}
	return written, nil
}

func generateReports(fs afero.Fs, result *inventory.ProcessedResult, out settings.Output, sink OutputSink, log *logger.Logger) ([]Written, error) {
	if err := fs.MkdirAll(out.Dir, 0755); err != nil {
		return nil, errs.Write(out.Dir, errors.Wrap(err, "creating output directory"))
	}

	reports := []csvReport{
		{settings.KeyPerRepoInstallations, out.PerRepoInstallations, PerRepoInstallationsHeader, records(PerRepoInstallations(result))},
		{settings.KeyRepoAppDetails, out.RepoAppDetails, RepoAppDetailsHeader, records(RepoAppDetails(result))},
		{settings.KeyAppRepos, out.AppRepos, AppReposHeader, records(AppRepos(result))},
	}

	written := []Written{}
	for _, r := range reports {
		path := out.Path(r.file)
		if err := writeCSV(fs, path, r.header, r.records); err != nil {
			return written, err
		}
		if err := sink.SetOutput(r.key, path); err != nil {
			return written, err
		}
		written = append(written, Written{Key: r.key, Path: path})
	}

	log.Infof("CSV files have been written to %s", out.Dir)
	for _, r := range reports {
		log.Infof("- %s: %s", r.file, strings.Join(r.header, ", "))
	}
	return written, nil
}

func writeCSV(fs afero.Fs, path string, header []string, records [][]string) error {
	f, err := fs.Create(path)
	if err != nil {
		return errs.Write(path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return errs.Write(path, err)
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return errs.Write(path, err)
	}
	if err := f.Close(); err != nil {
		return errs.Write(path, err)
	}
	return nil
}
