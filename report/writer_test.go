package report_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"

	"github.com/gh-reports/app-installation-report/errs"
	"github.com/gh-reports/app-installation-report/inventory"
	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/report"
	"github.com/gh-reports/app-installation-report/settings"
)

func testOutput() settings.Output {
	return settings.Output{
		Dir:                  "out",
		PerRepoInstallations: "per_repo_installations.csv",
		RepoAppDetails:       "repo_app_details.csv",
		AppRepos:             "app_repos.csv",
	}
}

type recordingSink struct {
	outputs [][2]string
}

func (s *recordingSink) SetOutput(key, value string) error {
	s.outputs = append(s.outputs, [2]string{key, value})
	return nil
}

// failingFs refuses to create one file name.
type failingFs struct {
	afero.Fs
	name string
}

func (f failingFs) Create(name string) (afero.File, error) {
	if filepath.Base(name) == f.name {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Create(name)
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	assert.NilError(t, err)
	return string(b)
}

func TestGenerateReports(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := &recordingSink{}
	var stdout bytes.Buffer
	log := logger.New(&stdout, &bytes.Buffer{}, false, false)

	written, err := report.GenerateReports(fs, scenarioResult(), testOutput(), sink, log)
	assert.NilError(t, err)

	perRepo := filepath.Join("out", "per_repo_installations.csv")
	details := filepath.Join("out", "repo_app_details.csv")
	appRepos := filepath.Join("out", "app_repos.csv")

	assert.Check(t, cmp.DeepEqual(written, []report.Written{
		{Key: "per_repo_installations_csv", Path: perRepo},
		{Key: "repo_app_details_csv", Path: details},
		{Key: "app_repos_csv", Path: appRepos},
	}))
	assert.Check(t, cmp.DeepEqual(sink.outputs, [][2]string{
		{"per_repo_installations_csv", perRepo},
		{"repo_app_details_csv", details},
		{"app_repos_csv", appRepos},
	}))

	assert.Check(t, cmp.Equal(readFile(t, fs, perRepo), "org_name,repo_name,app_installations\n"+
		"org,svc-a,1\n"+
		"org,svc-b,1\n"+
		"org,_ORG_LEVEL_,1\n"))
	assert.Check(t, cmp.Equal(readFile(t, fs, details), "org_name,repo_name,app-name,configured\n"+
		"org,svc-a,deploy,TRUE\n"+
		"org,svc-b,deploy,TRUE\n"+
		"org,_ORG_LEVEL_,lint,TRUE\n"))
	assert.Check(t, cmp.Equal(readFile(t, fs, appRepos), "org_name,app_name,repos_installed_in\n"+
		"org,deploy,2\n"))

	assert.Check(t, cmp.Contains(stdout.String(), "CSV files have been written to out\n"))
	assert.Check(t, cmp.Contains(stdout.String(), "- repo_app_details.csv: org_name, repo_name, app-name, configured\n"))
}

func TestGenerateReportsQuotesFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	installationRepos := inventory.NewRepoMap()
	installationRepos.Set("deploy, v2", []string{`svc "a"`})
	result := &inventory.ProcessedResult{
		OrgName:           "acme",
		InstallationRepos: installationRepos,
		RepoApps:          inventory.Invert([]inventory.AppRepos{{AppName: "deploy, v2", Repos: []string{`svc "a"`}}}),
	}

	_, err := report.GenerateReports(fs, result, testOutput(), &recordingSink{}, logger.New(&bytes.Buffer{}, &bytes.Buffer{}, false, false))
	assert.NilError(t, err)

	assert.Check(t, cmp.Equal(readFile(t, fs, filepath.Join("out", "repo_app_details.csv")),
		"org_name,repo_name,app-name,configured\n"+
			`acme,"svc ""a""","deploy, v2",TRUE`+"\n"))
	assert.Check(t, cmp.Equal(readFile(t, fs, filepath.Join("out", "app_repos.csv")),
		"org_name,app_name,repos_installed_in\n"+
			`acme,"deploy, v2",1`+"\n"))
}

func TestGenerateReportsEmptyResultWritesHeaders(t *testing.T) {
	fs := afero.NewMemMapFs()
	result := &inventory.ProcessedResult{
		OrgName:           "acme",
		InstallationRepos: inventory.NewRepoMap(),
		RepoApps:          inventory.NewRepoMap(),
	}

	_, err := report.GenerateReports(fs, result, testOutput(), &recordingSink{}, logger.New(&bytes.Buffer{}, &bytes.Buffer{}, false, false))
	assert.NilError(t, err)

	assert.Check(t, cmp.Equal(readFile(t, fs, filepath.Join("out", "per_repo_installations.csv")), "org_name,repo_name,app_installations\n"))
}

func TestGenerateReportsCreatesNestedDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	out := testOutput()
	out.Dir = filepath.Join("build", "reports")

	_, err := report.GenerateReports(fs, scenarioResult(), out, &recordingSink{}, logger.New(&bytes.Buffer{}, &bytes.Buffer{}, false, false))
	assert.NilError(t, err)

	exists, err := afero.Exists(fs, filepath.Join("build", "reports", "app_repos.csv"))
	assert.NilError(t, err)
	assert.Assert(t, exists)
}

func TestGenerateReportsFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := failingFs{Fs: mem, name: "repo_app_details.csv"}
	sink := &recordingSink{}
	var stderr bytes.Buffer
	log := logger.New(&bytes.Buffer{}, &stderr, false, false)

	written, err := report.GenerateReports(fs, scenarioResult(), testOutput(), sink, log)

	assert.Assert(t, errors.Is(err, errs.ErrWrite))
	assert.Assert(t, errors.Is(err, os.ErrPermission))
	var writeErr *errs.WriteError
	assert.Assert(t, errors.As(err, &writeErr))
	assert.Equal(t, writeErr.Path, filepath.Join("out", "repo_app_details.csv"))

	// the first report stays on disk, the last one is never written
	assert.Check(t, cmp.Len(written, 1))
	assert.Check(t, cmp.Len(sink.outputs, 1))
	exists, _ := afero.Exists(mem, filepath.Join("out", "per_repo_installations.csv"))
	assert.Check(t, exists)
	exists, _ = afero.Exists(mem, filepath.Join("out", "app_repos.csv"))
	assert.Check(t, !exists)

	assert.Check(t, cmp.Contains(stderr.String(), "Error: Error writing CSV files: "))
}

func TestGenerateReportsReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := report.GenerateReports(fs, scenarioResult(), testOutput(), &recordingSink{}, logger.New(&bytes.Buffer{}, &bytes.Buffer{}, false, false))

	assert.Assert(t, errors.Is(err, errs.ErrWrite))
	assert.ErrorContains(t, err, "creating output directory")
}
