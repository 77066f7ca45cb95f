// Package report turns processed installation data into the three CSV reports.
package report

import (
	"strconv"

	"github.com/gh-reports/app-installation-report/inventory"
)

// OrgLevel is the repository name used for rows describing org-wide installations.
const OrgLevel = "_ORG_LEVEL_"

// Configured is the value of the configured column of the repo-app details report.
const Configured = "TRUE"

var (
	PerRepoInstallationsHeader = []string{"org_name", "repo_name", "app_installations"}
	RepoAppDetailsHeader       = []string{"org_name", "repo_name", "app-name", "configured"}
	AppReposHeader             = []string{"org_name", "app_name", "repos_installed_in"}
)

// PerRepoInstallationsRow counts the apps installed on one repository.
type PerRepoInstallationsRow struct {
	OrgName          string
	RepoName         string
	AppInstallations int
}

func (r PerRepoInstallationsRow) Record() []string {
	return []string{r.OrgName, r.RepoName, strconv.Itoa(r.AppInstallations)}
}

// RepoAppDetailRow records that one app is installed on one repository.
type RepoAppDetailRow struct {
	OrgName    string
	RepoName   string
	AppName    string
	Configured string
}

func (r RepoAppDetailRow) Record() []string {
	return []string{r.OrgName, r.RepoName, r.AppName, r.Configured}
}

// AppReposRow counts the repositories one app is installed on.
type AppReposRow struct {
	OrgName          string
	AppName          string
	ReposInstalledIn int
}

func (r AppReposRow) Record() []string {
	return []string{r.OrgName, r.AppName, strconv.Itoa(r.ReposInstalledIn)}
}

// PerRepoInstallations returns one row per repository, followed by a single
// _ORG_LEVEL_ row counting the org-wide installations when there are any.
func PerRepoInstallations(result *inventory.ProcessedResult) []PerRepoInstallationsRow {
	rows := []PerRepoInstallationsRow{}
	for _, e := range result.RepoApps.Entries() {
		rows = append(rows, PerRepoInstallationsRow{
			OrgName:          result.OrgName,
			RepoName:         e.Key,
			AppInstallations: len(e.Values),
		})
	}

	if len(result.OrgWideInstallations) > 0 {
		rows = append(rows, PerRepoInstallationsRow{
			OrgName:          result.OrgName,
			RepoName:         OrgLevel,
			AppInstallations: len(result.OrgWideInstallations),
		})
	}
	return rows
}

// RepoAppDetails returns one row per repository and app, followed by one _ORG_LEVEL_
// row per org-wide installation.
func RepoAppDetails(result *inventory.ProcessedResult) []RepoAppDetailRow {
	rows := []RepoAppDetailRow{}
	for _, e := range result.RepoApps.Entries() {
		for _, app := range e.Values {
			rows = append(rows, RepoAppDetailRow{
				OrgName:    result.OrgName,
				RepoName:   e.Key,
				AppName:    app,
				Configured: Configured,
			})
		}
	}

	for _, inst := range result.OrgWideInstallations {
		rows = append(rows, RepoAppDetailRow{
			OrgName:    result.OrgName,
			RepoName:   OrgLevel,
			AppName:    inst.AppName,
			Configured: Configured,
		})
	}
	return rows
}

// AppRepos returns one row per repository-specific app with its repository count.
func AppRepos(result *inventory.ProcessedResult) []AppReposRow {
	rows := []AppReposRow{}
	for _, e := range result.InstallationRepos.Entries() {
		rows = append(rows, AppReposRow{
			OrgName:          result.OrgName,
			AppName:          e.Key,
			ReposInstalledIn: len(e.Values),
		})
	}
	return rows
}
