package cmd

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/settings"
)

// Execute runs the root command until it completes or the process is interrupted.
// This function is called by main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

type rootOpts struct {
	fs         afero.Fs
	stdout     io.Writer
	stderr     io.Writer
	httpClient *http.Client
}

// Option configures a command created by NewRootCommand
type Option interface {
	apply(*rootOpts)
}

type optionFunc func(*rootOpts)

func (f optionFunc) apply(o *rootOpts) { f(o) }

// WithFs returns an Option writing reports and process outputs to fs.
func WithFs(fs afero.Fs) Option {
	return optionFunc(func(o *rootOpts) { o.fs = fs })
}

// WithOutput returns an Option sending info output to stdout and everything else to stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return optionFunc(func(o *rootOpts) {
		o.stdout = stdout
		o.stderr = stderr
	})
}

// WithHTTPClient returns an Option whose client transport is used for GitHub API calls.
func WithHTTPClient(c *http.Client) Option {
	return optionFunc(func(o *rootOpts) { o.httpClient = c })
}

// NewRootCommand generates the app-installation-report command. Running it produces
// the three installation reports for one organization.
func NewRootCommand(opts ...Option) *cobra.Command {
	o := rootOpts{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt.apply(&o)
	}

	v := viper.New()
	var configPath string

	command := &cobra.Command{
		Use:   "app-installation-report",
		Short: "Report the GitHub App installations of an organization.",
		Long: `Report the GitHub App installations of an organization.

Three CSV files are written to the output directory:
  per_repo_installations.csv  number of apps installed on each repository
  repo_app_details.csv        one row per repository and app
  app_repos.csv               number of repositories each app can access

Every flag can also be given as a GitHub Actions input (INPUT_<NAME>), as an
environment variable named after its key, or in the YAML file passed to --config.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd, configPath)
			if err != nil {
				log := logger.New(o.stdout, o.stderr, false, false)
				log.Errorf("Execution failed: %s", err.Error())
				return err
			}
			cfg.HTTPClient = o.httpClient

			log := logger.New(o.stdout, o.stderr, cfg.Debug, cfg.Actions)
			if err := run(cmd.Context(), &o, cfg, log); err != nil {
				log.Errorf("Execution failed: %s", err.Error())
				return err
			}
			return nil
		},
	}

	command.SetOut(o.stdout)
	command.SetErr(o.stderr)

	settings.AddFlags(command.Flags())
	command.Flags().StringVar(&configPath, "config", "", "YAML file providing defaults for any of the flags")

	command.AddCommand(newVersionCommand(&o))

	return command
}

func loadConfig(v *viper.Viper, cmd *cobra.Command, configPath string) (settings.Config, error) {
	if err := settings.Bind(v, cmd.Flags()); err != nil {
		return settings.Config{}, err
	}
	if err := settings.ReadConfigFile(v, configPath); err != nil {
		return settings.Config{}, err
	}
	return settings.Load(v), nil
}
