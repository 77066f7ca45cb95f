package installation

import "context"

// Selection modes reported in an installation's repository_selection field.
const (
	SelectionAll      = "all"
	SelectionSelected = "selected"
)

// Record is one GitHub App installation as returned by the organization
// installations endpoint.
type Record struct {
	ID                  int64  `json:"id"`
	AppSlug             string `json:"app_slug"`
	AppID               int64  `json:"app_id"`
	RepositorySelection string `json:"repository_selection"`
}

// InstallationClient is the interface to the GitHub App installation APIs.
// Implementations return every page of a collection.
type InstallationClient interface {
	ListOrganizationInstallations(ctx context.Context, org string) ([]Record, error)
	ListInstallationRepositories(ctx context.Context, installationID int64) ([]string, error)
}
