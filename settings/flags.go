package settings

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flag names for each configuration key.
var flagNames = map[string]string{
	KeyToken:                "token",
	KeyOrg:                  "org",
	KeyOutputDir:            "output-dir",
	KeyPerRepoInstallations: "per-repo-installations-csv",
	KeyRepoAppDetails:       "repo-app-details-csv",
	KeyAppRepos:             "app-repos-csv",
	KeyAPIURL:               "api-url",
	KeyAPIVersion:           "api-version",
	KeyMaxRateLimitWait:     "max-rate-limit-wait",
	KeyHTTPTimeout:          "http-timeout",
	KeyVerbose:              "verbose",
}

// AddFlags registers one flag per configuration key.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(flagNames[KeyToken], "", "GitHub token used to list app installations")
	flags.String(flagNames[KeyOrg], "", "organization login to report on")
	flags.String(flagNames[KeyOutputDir], DefaultOutputDir, "directory the CSV reports are written to")
	flags.String(flagNames[KeyPerRepoInstallations], "per_repo_installations.csv", "file name of the per-repository installation counts report")
	flags.String(flagNames[KeyRepoAppDetails], "repo_app_details.csv", "file name of the repository/app detail report")
	flags.String(flagNames[KeyAppRepos], "app_repos.csv", "file name of the app repository counts report")
	flags.String(flagNames[KeyAPIURL], DefaultAPIURL, "GitHub REST API base URL")
	flags.String(flagNames[KeyAPIVersion], DefaultAPIVersion, "value of the X-GitHub-Api-Version header")
	flags.Duration(flagNames[KeyMaxRateLimitWait], DefaultMaxRateLimitWait, "longest wait before the single retry after a primary rate limit")
	flags.Duration(flagNames[KeyHTTPTimeout], DefaultHTTPTimeout, "timeout of each GitHub API request")
	flags.BoolP(flagNames[KeyVerbose], "v", false, "enable debug logging")
}

// Bind wires every configuration key to its flag and to its environment variables.
// A key is looked up as a GitHub Actions input (INPUT_<KEY>) first and then under its
// bare upper-cased name. Debug logging also follows RUNNER_DEBUG.
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagNames {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "binding %s flag", name)
		}

		envs := []string{"INPUT_" + strings.ToUpper(key), strings.ToUpper(key)}
		if key == KeyVerbose {
			envs = append(envs, "RUNNER_DEBUG")
		}
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return errors.Wrapf(err, "binding %s environment", key)
		}
	}
	return nil
}

// ReadConfigFile merges an optional YAML file into v. Keys in the file use the same
// names as the environment inputs.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}
	return nil
}

// Load builds the run configuration from v and the process environment.
func Load(v *viper.Viper) Config {
	return Config{
		Token:      strings.TrimSpace(v.GetString(KeyToken)),
		Org:        strings.TrimSpace(v.GetString(KeyOrg)),
		APIURL:     v.GetString(KeyAPIURL),
		APIVersion: v.GetString(KeyAPIVersion),
		Output: Output{
			Dir:                  v.GetString(KeyOutputDir),
			PerRepoInstallations: v.GetString(KeyPerRepoInstallations),
			RepoAppDetails:       v.GetString(KeyRepoAppDetails),
			AppRepos:             v.GetString(KeyAppRepos),
		},
		MaxRateLimitWait: v.GetDuration(KeyMaxRateLimitWait),
		HTTPTimeout:      v.GetDuration(KeyHTTPTimeout),
		Debug:            v.GetBool(KeyVerbose),
		Actions:          os.Getenv("GITHUB_ACTIONS") == "true",
		OutputFile:       os.Getenv("GITHUB_OUTPUT"),
	}
}
