package installation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"

	"github.com/gh-reports/app-installation-report/api/rest"
	"github.com/gh-reports/app-installation-report/errs"
	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/settings"
)

const perPage = 100

type installationRestClient struct {
	client *github.Client
	log    *logger.Logger
}

var _ InstallationClient = &installationRestClient{}

// NewInstallationRestClient returns a new installationRestClient satisfying the
// InstallationClient interface via the GitHub REST API.
func NewInstallationRestClient(config settings.Config, log *logger.Logger) (*installationRestClient, error) {
	client, err := rest.New(config, log)
	if err != nil {
		return nil, err
	}
	return &installationRestClient{client: client, log: log}, nil
}

func (c *installationRestClient) ListOrganizationInstallations(ctx context.Context, org string) ([]Record, error) {
	records := []Record{}
	opts := &github.ListOptions{PerPage: perPage}

	for {
		page, resp, err := c.client.Organizations.ListInstallations(ctx, org, opts)
		if err != nil {
			return nil, fetchError(fmt.Sprintf("fetching installations for %s", org), resp, err)
		}
		c.log.Debug("installations page %d for %s: %d records", pageNumber(opts), org, len(page.Installations))

		for _, inst := range page.Installations {
			records = append(records, Record{
				ID:                  inst.GetID(),
				AppSlug:             inst.GetAppSlug(),
				AppID:               inst.GetAppID(),
				RepositorySelection: inst.GetRepositorySelection(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return records, nil
}

func (c *installationRestClient) ListInstallationRepositories(ctx context.Context, installationID int64) ([]string, error) {
	names := []string{}
	opts := &github.ListOptions{PerPage: perPage}

	for {
		page, resp, err := c.client.Apps.ListUserRepos(ctx, installationID, opts)
		if err != nil {
			return nil, fetchError(fmt.Sprintf("fetching repositories for installation %d", installationID), resp, err)
		}
		c.log.Debug("repositories page %d for installation %d: %d records", pageNumber(opts), installationID, len(page.Repositories))

		for _, repo := range page.Repositories {
			names = append(names, repo.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

func pageNumber(opts *github.ListOptions) int {
	if opts.Page == 0 {
		return 1
	}
	return opts.Page
}

// fetchError converts a go-github failure into an errs.FetchError carrying the HTTP
// status and the API's error message when there was a response.
func fetchError(op string, resp *github.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	var body string
	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &errResp):
		body = errorBody(errResp.Message, errResp.Errors)
	case errors.As(err, &rateErr):
		body = rateErr.Message
	case errors.As(err, &abuseErr):
		body = abuseErr.Message
	}

	return errs.Fetch(op, status, body, err)
}

func errorBody(message string, details []github.Error) string {
	parts := []string{}
	if message != "" {
		parts = append(parts, message)
	}
	for _, d := range details {
		if d.Message != "" {
			parts = append(parts, d.Message)
		} else if d.Code != "" {
			parts = append(parts, fmt.Sprintf("%s %s: %s", d.Resource, d.Field, d.Code))
		}
	}
	return strings.Join(parts, "; ")
}
