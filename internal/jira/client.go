// Package jira posts rendered checklists to JIRA.
package jira

import (
	"context"
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/qcmd/internal/config"
	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/pkg/models"
)

// Client handles interactions with the JIRA API
type Client struct {
	client  *jira.Client
	baseURL string
}

// NewClient creates a JIRA client authenticated with basic auth.
func NewClient(cfg config.JiraConfig) (*Client, error) {
	if cfg.URL == "" || cfg.Username == "" || cfg.Token == "" {
		return nil, fmt.Errorf("jira url, username and token are required")
	}

	tp := jira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.Token,
	}

	client, err := jira.NewClient(tp.Client(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error creating JIRA client: %w", err)
	}

	logging.Info("jira configuration",
		"url", cfg.URL,
		"username", cfg.Username,
		"token", logging.MaskSensitive(cfg.Token))

	return &Client{client: client, baseURL: strings.TrimSuffix(cfg.URL, "/")}, nil
}

// CreateTicket creates a ticket in project whose description is the
// checklist converted to JIRA wiki markup.
func (c *Client) CreateTicket(ctx context.Context, project, summary, markdown, issueType string, labels []string) (models.UploadedIssue, error) {
	if c.client == nil {
		return models.UploadedIssue{}, fmt.Errorf("JIRA client not initialized")
	}
	if issueType == "" {
		issueType = "Task"
	}

	issue := &jira.Issue{
		Fields: &jira.IssueFields{
			Project:     jira.Project{Key: project},
			Summary:     summary,
			Description: WikiMarkup(markdown),
			Type:        jira.IssueType{Name: issueType},
			Labels:      labels,
		},
	}

	logging.Debug("creating jira ticket",
		"project", project,
		"summary", summary,
		"type", issueType)

	created, resp, err := c.client.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		logging.Error("failed to create jira ticket",
			"project", project,
			"error", err,
			"status_code", status)
		return models.UploadedIssue{}, fmt.Errorf("failed to create JIRA ticket in %s: %w (status: %d)", project, err, status)
	}

	uploaded := models.UploadedIssue{
		Tracker: config.TrackerJira,
		Key:     created.Key,
		URL:     fmt.Sprintf("%s/browse/%s", c.baseURL, created.Key),
	}
	logging.Info("created jira ticket",
		"key", uploaded.Key,
		"url", uploaded.URL)
	return uploaded, nil
}

// WikiMarkup converts the checklist Markdown produced by qcmd into JIRA wiki
// markup. Only the constructs the renderer emits are translated.
func WikiMarkup(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "# "):
			lines[i] = "h1. " + strings.TrimPrefix(line, "# ")
		case line == ">":
			lines[i] = "bq. "
		case strings.HasPrefix(line, "> "):
			lines[i] = "bq. " + strings.TrimPrefix(line, "> ")
		case strings.HasPrefix(line, "- [ ] "), strings.HasPrefix(line, "* [ ] "):
			lines[i] = "* " + line[len("- [ ] "):]
		}
	}
	return strings.Join(lines, "\n")
}
