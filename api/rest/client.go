package rest

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/gh-reports/app-installation-report/logger"
	"github.com/gh-reports/app-installation-report/settings"
	"github.com/gh-reports/app-installation-report/version"
)

const headerAPIVersion = "X-GitHub-Api-Version"

// New returns a GitHub REST client for cfg. Requests carry the token, the configured
// API version and the CLI user agent, and pass through the rate limit policy.
func New(cfg settings.Config, log *logger.Logger) (*github.Client, error) {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = settings.DefaultAPIURL
	}
	// Ensure the base URL ends with a slash
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing API URL %q", cfg.APIURL)
	}
	if !baseURL.IsAbs() {
		return nil, errors.Errorf("API URL (%s) must be absolute URL, including scheme", cfg.APIURL)
	}

	var transport http.RoundTripper = &rateLimitTransport{
		base:    baseTransport(cfg),
		maxWait: cfg.MaxRateLimitWait,
		log:     log,
		now:     time.Now,
		sleep:   sleepContext,
	}
	transport = &headerTransport{base: transport, apiVersion: cfg.APIVersion}
	transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		Base:   transport,
	}

	client := github.NewClient(&http.Client{Transport: transport})
	client.BaseURL = baseURL
	client.UserAgent = version.UserAgent()
	return client, nil
}

// baseTransport bounds the wait for each response's headers; the rate limit wait is
// not covered by it.
func baseTransport(cfg settings.Config) http.RoundTripper {
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		return cfg.HTTPClient.Transport
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.HTTPTimeout > 0 {
		t.ResponseHeaderTimeout = cfg.HTTPTimeout
	}
	return t
}

type headerTransport struct {
	base       http.RoundTripper
	apiVersion string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.apiVersion == "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set(headerAPIVersion, t.apiVersion)
	req.Header.Set("Accept", "application/vnd.github+json")
	return t.base.RoundTrip(req)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
