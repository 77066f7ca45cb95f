package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConfig = errors.New("invalid configuration")
	ErrFetch  = errors.New("fetch failed")
	ErrWrite  = errors.New("write failed")
)

// ConfigError reports a missing or invalid input. It is raised before any network call.
type ConfigError struct{ err error }

func (e *ConfigError) Error() string        { return e.err.Error() }
func (e *ConfigError) Unwrap() error        { return e.err }
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func Config(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{err: err}
}

func Configf(format string, args ...any) error {
	return &ConfigError{err: fmt.Errorf(format, args...)}
}

// FetchError reports a failed GitHub API call. StatusCode is zero when the request
// never got a response.
type FetchError struct {
	Op         string
	StatusCode int
	Body       string
	err        error
}

func (e *FetchError) Error() string {
	if e.Op == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.err.Error())
}
func (e *FetchError) Unwrap() error        { return e.err }
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Status returns the HTTP status line for the error, or an empty string when no
// response was received.
func (e *FetchError) Status() string {
	if e.StatusCode == 0 {
		return ""
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func Fetch(op string, statusCode int, body string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Op: op, StatusCode: statusCode, Body: body, err: err}
}

// WriteError reports a filesystem or serialization failure while producing a report.
type WriteError struct {
	Path string
	err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, e.err.Error())
}
func (e *WriteError) Unwrap() error        { return e.err }
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

func Write(path string, err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Path: path, err: err}
}
