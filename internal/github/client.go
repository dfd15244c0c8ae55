// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/qcmd/internal/config"
	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/pkg/models"
)

// Client encapsulates the GitHub API client.
type Client struct {
	client *github.Client
}

// APIURL returns the REST endpoint for a GitHub domain. Anything other than
// github.com is treated as a GitHub Enterprise host.
func APIURL(domain string) string {
	if domain == "" || domain == "github.com" {
		return "https://api.github.com/"
	}
	return fmt.Sprintf("https://%s/api/v3/", domain)
}

// NewClient creates an authenticated GitHub client and verifies the token.
func NewClient(ctx context.Context, cfg config.GitHubConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	apiURL := APIURL(cfg.Domain)
	logging.Info("github configuration",
		"domain", cfg.Domain,
		"api_url", apiURL,
		"token", logging.MaskSensitive(cfg.Token))

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	client, err := newClient(oauth2.NewClient(ctx, ts), apiURL)
	if err != nil {
		return nil, err
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	login, err := client.Verify(verifyCtx)
	if err != nil {
		return nil, err
	}
	logging.Info("github authentication successful", "username", login)

	return client, nil
}

func newClient(httpClient *http.Client, apiURL string) (*Client, error) {
	client := github.NewClient(httpClient)
	if apiURL != "https://api.github.com/" {
		parsedURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = parsedURL
		client.UploadURL = parsedURL
	}
	return &Client{client: client}, nil
}

// Verify checks the token by fetching the authenticated user's login.
func (c *Client) Verify(ctx context.Context) (string, error) {
	user, resp, err := c.client.Users.Get(ctx, "")
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		logging.Error("failed to test github token",
			"error", err,
			"status_code", status)
		return "", fmt.Errorf("error testing github token: %w", err)
	}
	return user.GetLogin(), nil
}

// parseRepository splits "owner/repo".
func parseRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// CreateIssue opens a new issue whose body is the rendered checklist.
// The repository should be in the format "owner/repo".
func (c *Client) CreateIssue(ctx context.Context, repository, title, body string, labels []string) (models.UploadedIssue, error) {
	owner, repo, err := parseRepository(repository)
	if err != nil {
		return models.UploadedIssue{}, err
	}

	req := &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}

	logging.Debug("creating github issue",
		"repository", repository,
		"title", title,
		"body_bytes", len(body))

	issue, resp, err := c.client.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		logging.Error("failed to create github issue",
			"repository", repository,
			"error", err,
			"status_code", status)
		return models.UploadedIssue{}, fmt.Errorf("failed to create GitHub issue in %s: %w", repository, err)
	}

	uploaded := models.UploadedIssue{
		Tracker: config.TrackerGitHub,
		Key:     fmt.Sprintf("%s#%d", repository, issue.GetNumber()),
		URL:     issue.GetHTMLURL(),
	}
	logging.Info("created github issue",
		"key", uploaded.Key,
		"url", uploaded.URL)
	return uploaded, nil
}
