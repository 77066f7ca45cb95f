package errs_test

import (
	"errors"
	"io/fs"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/gh-reports/app-installation-report/errs"
)

func TestKinds(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     error
		want    error
		notWant []error
		message string
	}{
		{
			name:    "config",
			err:     errs.Config(cause),
			want:    errs.ErrConfig,
			notWant: []error{errs.ErrFetch, errs.ErrWrite},
			message: "boom",
		},
		{
			name:    "configf",
			err:     errs.Configf("%s input is required", "GITHUB_TOKEN"),
			want:    errs.ErrConfig,
			message: "GITHUB_TOKEN input is required",
		},
		{
			name:    "fetch with op",
			err:     errs.Fetch("list repositories for installation 2", 502, "bad gateway", cause),
			want:    errs.ErrFetch,
			notWant: []error{errs.ErrConfig, errs.ErrWrite},
			message: "list repositories for installation 2: boom",
		},
		{
			name:    "write with path",
			err:     errs.Write("out/app_repos.csv", fs.ErrPermission),
			want:    errs.ErrWrite,
			notWant: []error{errs.ErrConfig, errs.ErrFetch},
			message: "out/app_repos.csv: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Assert(t, errors.Is(tt.err, tt.want))
			for _, other := range tt.notWant {
				assert.Assert(t, !errors.Is(tt.err, other))
			}
			assert.Error(t, tt.err, tt.message)
		})
	}
}

func TestNilPassthrough(t *testing.T) {
	assert.NilError(t, errs.Config(nil))
	assert.NilError(t, errs.Fetch("op", 500, "", nil))
	assert.NilError(t, errs.Write("path", nil))
}

func TestFetchErrorFields(t *testing.T) {
	err := errs.Fetch("list installations for acme", 502, `{"message":"Server Error"}`, errors.New("bad gateway"))

	var fetchErr *errs.FetchError
	assert.Assert(t, errors.As(err, &fetchErr))
	assert.Equal(t, fetchErr.StatusCode, 502)
	assert.Equal(t, fetchErr.Body, `{"message":"Server Error"}`)
	assert.Equal(t, fetchErr.Status(), "502 Bad Gateway")

	noResponse := &errs.FetchError{}
	assert.Equal(t, noResponse.Status(), "")
}

func TestUnwrap(t *testing.T) {
	err := errs.Write("out", fs.ErrNotExist)
	assert.Assert(t, errors.Is(err, fs.ErrNotExist))
}
