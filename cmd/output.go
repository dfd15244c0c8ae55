package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/danielolaszy/qcmd/internal/config"
	"github.com/danielolaszy/qcmd/internal/github"
	"github.com/danielolaszy/qcmd/internal/jira"
	"github.com/danielolaszy/qcmd/pkg/models"
)

var (
	progressColor = color.New(color.FgBlue)
	successColor  = color.New(color.FgGreen, color.Bold)
)

// publish prints the checklist or uploads it to the configured tracker.
func publish(ctx context.Context, cfg *config.Config, text string, out io.Writer) error {
	if !cfg.Issue.Create {
		_, err := fmt.Fprint(out, text)
		return err
	}

	progressColor.Fprintln(os.Stderr, "Uploading issue...")

	var (
		uploaded models.UploadedIssue
		err      error
	)
	switch cfg.Issue.Tracker {
	case config.TrackerJira:
		uploaded, err = uploadJira(ctx, cfg, text)
	default:
		uploaded, err = uploadGitHub(ctx, cfg, text)
	}
	if err != nil {
		return err
	}

	successColor.Fprintln(os.Stderr, "Issue uploaded!")
	_, err = fmt.Fprintf(out, "%s %s\n", uploaded.Key, uploaded.URL)
	return err
}

func uploadGitHub(ctx context.Context, cfg *config.Config, text string) (models.UploadedIssue, error) {
	client, err := github.NewClient(ctx, cfg.GitHub)
	if err != nil {
		return models.UploadedIssue{}, fmt.Errorf("failed to initialize github client: %w", err)
	}
	return client.CreateIssue(ctx, cfg.GitHub.Repository(), cfg.Issue.Title, text, cfg.Issue.Labels)
}

func uploadJira(ctx context.Context, cfg *config.Config, text string) (models.UploadedIssue, error) {
	client, err := jira.NewClient(cfg.Jira)
	if err != nil {
		return models.UploadedIssue{}, fmt.Errorf("failed to initialize jira client: %w", err)
	}
	return client.CreateTicket(ctx, cfg.Jira.Project, cfg.Issue.Title, text, cfg.Jira.IssueType, cfg.Issue.Labels)
}
