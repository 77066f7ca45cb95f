package settings

import (
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/gh-reports/app-installation-report/errs"
)

// Configuration keys. They double as the names of the process outputs and as the
// GitHub Actions input names.
const (
	KeyToken                = "GITHUB_TOKEN"
	KeyOrg                  = "GITHUB_ORG"
	KeyOutputDir            = "output_dir"
	KeyPerRepoInstallations = "per_repo_installations_csv"
	KeyRepoAppDetails       = "repo_app_details_csv"
	KeyAppRepos             = "app_repos_csv"
	KeyAPIURL               = "api_url"
	KeyAPIVersion           = "api_version"
	KeyMaxRateLimitWait     = "max_rate_limit_wait"
	KeyHTTPTimeout          = "http_timeout"
	KeyVerbose              = "verbose"
)

const (
	DefaultAPIURL           = "https://api.github.com/"
	DefaultAPIVersion       = "2022-11-28"
	DefaultOutputDir        = "reports"
	DefaultMaxRateLimitWait = 5 * time.Minute
	DefaultHTTPTimeout      = 30 * time.Second
)

// Config is used to represent the state of a single report run.
// It is built once at startup and passed to every component that needs it.
type Config struct {
	Token            string        `yaml:"-"`
	Org              string        `yaml:"org"`
	APIURL           string        `yaml:"api_url"`
	APIVersion       string        `yaml:"api_version"`
	Output           Output        `yaml:"output"`
	MaxRateLimitWait time.Duration `yaml:"max_rate_limit_wait"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
	Debug            bool          `yaml:"debug"`
	// Actions is set when running inside a GitHub Actions job.
	Actions bool `yaml:"actions"`
	// OutputFile is the GitHub Actions file command target ($GITHUB_OUTPUT).
	OutputFile string       `yaml:"output_file,omitempty"`
	HTTPClient *http.Client `yaml:"-"`
}

// Output holds the report destination.
type Output struct {
	Dir                  string `yaml:"dir"`
	PerRepoInstallations string `yaml:"per_repo_installations_csv"`
	RepoAppDetails       string `yaml:"repo_app_details_csv"`
	AppRepos             string `yaml:"app_repos_csv"`
}

// Path joins a report file name onto the output directory.
func (o Output) Path(file string) string {
	return filepath.Join(o.Dir, file)
}

// Validate checks the required inputs. It must succeed before any network call.
func (cfg *Config) Validate() error {
	if cfg.Token == "" {
		return errs.Configf("%s input is required", KeyToken)
	}
	if cfg.Org == "" {
		return errs.Configf("No organization name defined. Set %s input to specify your organization.", KeyOrg)
	}

	missing := []string{}
	for key, value := range map[string]string{
		KeyOutputDir:            cfg.Output.Dir,
		KeyPerRepoInstallations: cfg.Output.PerRepoInstallations,
		KeyRepoAppDetails:       cfg.Output.RepoAppDetails,
		KeyAppRepos:             cfg.Output.AppRepos,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errs.Configf("missing required output inputs: %s", strings.Join(missing, ", "))
	}
	return nil
}

// String renders the configuration as YAML. The token is never included.
func (cfg Config) String() string {
	enc, err := yaml.Marshal(&cfg)
	if err != nil {
		return err.Error()
	}
	return string(enc)
}
