package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/gh-reports/app-installation-report/errs"
	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/settings"
)

// OutputSink receives the process outputs of a run.
type OutputSink interface {
	SetOutput(key, value string) error
}

// NewOutputSink returns a GitHubOutput when cfg names an output file and a LogOutput
// otherwise.
func NewOutputSink(fs afero.Fs, cfg settings.Config, log *logger.Logger) OutputSink {
	if cfg.OutputFile != "" {
		return &GitHubOutput{Fs: fs, Path: cfg.OutputFile}
	}
	return &LogOutput{Log: log}
}

// GitHubOutput appends outputs to a GitHub Actions output file.
type GitHubOutput struct {
	Fs   afero.Fs
	Path string
}

// SetOutput appends key=value. Multi-line values use the heredoc form with a random
// delimiter that must not occur in key or value.
func (o *GitHubOutput) SetOutput(key, value string) error {
	line := fmt.Sprintf("%s=%s\n", key, value)
	if strings.ContainsAny(value, "\r\n") {
		delimiter := "ghadelimiter_" + uuid.NewString()
		if strings.Contains(key, delimiter) || strings.Contains(value, delimiter) {
			return errs.Write(o.Path, errors.Errorf("unexpected input: value of %s contains the delimiter %s", key, delimiter))
		}
		line = fmt.Sprintf("%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
	}

	f, err := o.Fs.OpenFile(o.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errs.Write(o.Path, err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return errs.Write(o.Path, err)
	}
	return errs.Write(o.Path, f.Close())
}

// LogOutput prints outputs through the logger.
type LogOutput struct {
	Log *logger.Logger
}

func (o *LogOutput) SetOutput(key, value string) error {
	o.Log.Infof("%s=%s", key, value)
	return nil
}
