// Package inventory collects the GitHub App installations of an organization and
// works out which apps can reach which repositories.
package inventory

import (
	"context"
	"errors"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/gh-reports/app-installation-report/api/installation"
	"github.com/gh-reports/app-installation-report/errs"
	"github.com/gh-reports/app-installation-report/logger"
)

// Installation is an app installation reduced to what the reports need.
type Installation struct {
	ID      int64
	AppName string
}

// AppRepos is the repository list resolved for one repository-specific installation.
type AppRepos struct {
	AppName string
	Repos   []string
}

// ProcessedResult holds everything the reports are built from.
type ProcessedResult struct {
	OrgName                   string
	OrgWideInstallations      []Installation
	RepoSpecificInstallations []Installation
	// InstallationRepos maps app name to the repositories it was granted.
	InstallationRepos *RepoMap
	// RepoApps maps repository name to the apps granted access to it.
	RepoApps *RepoMap
}

// AppName returns the slug of the app, or its numeric id when the slug is empty.
func AppName(r installation.Record) string {
	if r.AppSlug != "" {
		return r.AppSlug
	}
	return strconv.FormatInt(r.AppID, 10)
}

// Classify splits records by repository selection. Records with a selection other than
// "all" or "selected" are dropped. Both results keep the order of records.
func Classify(records []installation.Record) (orgWide, repoSpecific []Installation) {
	orgWide = []Installation{}
	repoSpecific = []Installation{}
	for _, r := range records {
		inst := Installation{ID: r.ID, AppName: AppName(r)}
		switch r.RepositorySelection {
		case installation.SelectionAll:
			orgWide = append(orgWide, inst)
		case installation.SelectionSelected:
			repoSpecific = append(repoSpecific, inst)
		}
	}
	return orgWide, repoSpecific
}

// FetchOrganizationInstallations lists every installation of org and classifies it.
func FetchOrganizationInstallations(ctx context.Context, client installation.InstallationClient, log *logger.Logger, orgName string) (orgWide, repoSpecific []Installation, err error) {
	records, err := client.ListOrganizationInstallations(ctx, orgName)
	if err != nil {
		logFailure(log, "Error fetching installations", err)
		return nil, nil, pkgerrors.WithStack(err)
	}
	log.Infof("Found %d total app installations for %s", len(records), orgName)

	orgWide, repoSpecific = Classify(records)
	log.Infof("Organization-wide installations: %d", len(orgWide))
	log.Infof("Repository-specific installations: %d", len(repoSpecific))
	return orgWide, repoSpecific, nil
}

// FetchInstallationRepositories returns the names of the repositories granted to an
// installation, in API order.
func FetchInstallationRepositories(ctx context.Context, client installation.InstallationClient, log *logger.Logger, installationID int64) ([]string, error) {
	names, err := client.ListInstallationRepositories(ctx, installationID)
	if err != nil {
		logFailure(log, "Error fetching repositories for installation "+strconv.FormatInt(installationID, 10), err)
		return nil, pkgerrors.WithStack(err)
	}
	return names, nil
}

// Aggregate resolves the repositories of each repository-specific installation, one
// installation at a time. The first failure aborts the whole aggregation.
//
// When two installations share an app name, the later one replaces the earlier one in
// installationRepos while repoApps keeps the edges of both.
func Aggregate(ctx context.Context, client installation.InstallationClient, log *logger.Logger, repoSpecific []Installation) (installationRepos, repoApps *RepoMap, err error) {
	resolved := make([]AppRepos, 0, len(repoSpecific))
	for _, inst := range repoSpecific {
		names, err := FetchInstallationRepositories(ctx, client, log, inst.ID)
		if err != nil {
			return nil, nil, err
		}
		resolved = append(resolved, AppRepos{AppName: inst.AppName, Repos: names})
		log.Infof("App: %s, Installation ID: %d, Repos: %d", inst.AppName, inst.ID, len(names))
	}

	installationRepos = NewRepoMap()
	for _, r := range resolved {
		installationRepos.Set(r.AppName, r.Repos)
	}
	return installationRepos, Invert(resolved), nil
}

// Invert turns app to repositories pairs into a repository to apps map. Repositories
// appear in the order they are first seen; apps are listed in pair order.
func Invert(pairs []AppRepos) *RepoMap {
	repoApps := NewRepoMap()
	for _, p := range pairs {
		for _, repo := range p.Repos {
			repoApps.Append(repo, p.AppName)
		}
	}
	return repoApps
}

// Process runs the fetcher and the aggregator for orgName.
func Process(ctx context.Context, client installation.InstallationClient, log *logger.Logger, orgName string) (*ProcessedResult, error) {
	orgWide, repoSpecific, err := FetchOrganizationInstallations(ctx, client, log, orgName)
	if err != nil {
		return nil, err
	}

	installationRepos, repoApps, err := Aggregate(ctx, client, log, repoSpecific)
	if err != nil {
		return nil, err
	}

	log.Infof("Installation data processed successfully")
	return &ProcessedResult{
		OrgName:                   orgName,
		OrgWideInstallations:      orgWide,
		RepoSpecificInstallations: repoSpecific,
		InstallationRepos:         installationRepos,
		RepoApps:                  repoApps,
	}, nil
}

// logFailure logs err with the HTTP status and response body when the API returned one.
func logFailure(log *logger.Logger, msg string, err error) {
	log.Errorf("%s: %s", msg, err.Error())

	var fetchErr *errs.FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode == 0 {
		return
	}
	log.Errorf("Status: %d", fetchErr.StatusCode)
	if fetchErr.Body != "" {
		log.Errorf("Response body: %s", fetchErr.Body)
	}
}
