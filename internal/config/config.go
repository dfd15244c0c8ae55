// Package config provides centralized configuration management for the application.
//
// Values are resolved by viper in this order: command-line flags, environment
// variables, an optional config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danielolaszy/qcmd/internal/checklist"
	"github.com/danielolaszy/qcmd/internal/crossref"
	"github.com/danielolaszy/qcmd/internal/subtitles"
	"github.com/danielolaszy/qcmd/pkg/models"
)

// Config holds all configuration parameters for the application.
type Config struct {
	QCFile       string
	DialogueFile string
	SkipEdit     bool

	References ReferenceConfig
	Render     RenderConfig
	Issue      IssueConfig
	GitHub     GitHubConfig
	Jira       JiraConfig
}

// ReferenceConfig controls cross-referencing against the dialogue track.
type ReferenceConfig struct {
	Include    bool
	Categories []string
	Format     models.ReferenceFormat
	SkipPicker bool
	Policy     subtitles.Policy
	Positioned bool
}

// RenderConfig controls the checklist layout.
type RenderConfig struct {
	Marker          string
	MergeCategories []string
	MergeLabel      string
}

// IssueConfig describes where the checklist is uploaded.
type IssueConfig struct {
	Create  bool
	Tracker string
	Title   string
	Labels  []string
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Owner  string
	Repo   string
	Domain string
}

// Repository returns the "owner/repo" form used by the GitHub client.
func (g GitHubConfig) Repository() string {
	return g.Owner + "/" + g.Repo
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	URL       string
	Username  string
	Token     string
	Project   string
	IssueType string
}

// Tracker names accepted by --tracker.
const (
	TrackerGitHub = "github"
	TrackerJira   = "jira"
)

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"qc-file":               "qc_file",
	"dialogue-file":         "dialogue_file",
	"skip-edit":             "skip_edit",
	"include-references":    "references.include",
	"reference-categories":  "references.categories",
	"reference-format":      "references.format",
	"skip-reference-picker": "references.skip_picker",
	"overlap-policy":        "references.policy",
	"include-positioned":    "references.positioned",
	"marker":                "render.marker",
	"merge-categories":      "render.merge_categories",
	"merge-label":           "render.merge_label",
	"create-issue":          "issue.create",
	"tracker":               "issue.tracker",
	"issue-title":           "issue.title",
	"issue-labels":          "issue.labels",
}

// envKeys maps configuration keys to the environment variables they read.
var envKeys = map[string]string{
	"github.token":   "GITHUB_TOKEN",
	"github.owner":   "GITHUB_OWNER",
	"github.repo":    "GITHUB_REPO",
	"github.domain":  "GITHUB_DOMAIN",
	"jira.url":       "JIRA_URL",
	"jira.username":  "JIRA_USERNAME",
	"jira.token":     "JIRA_TOKEN",
	"jira.project":   "JIRA_PROJECT",
	"jira.issuetype": "JIRA_ISSUE_TYPE",
}

// New returns a viper instance with defaults and environment bindings set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("QCMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}

	v.SetDefault("references.categories", crossref.DefaultCategories)
	v.SetDefault("references.format", string(models.ReferenceFormatFull))
	v.SetDefault("references.policy", subtitles.PolicyBucket.String())
	v.SetDefault("render.marker", checklist.DefaultMarker)
	v.SetDefault("render.merge_label", checklist.DefaultMergeLabel)
	v.SetDefault("issue.tracker", TrackerGitHub)
	v.SetDefault("github.domain", "github.com")
	v.SetDefault("jira.issuetype", "Task")
	return v
}

// BindFlags binds the known command-line flags present in fs.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// ReadFile loads an optional config file. An explicit path must exist;
// otherwise qcmd.yaml is looked up in the working directory and
// $HOME/.config/qcmd, and its absence is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("qcmd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "qcmd"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from v. References default to on when a
// dialogue file is given and the include flag was not set explicitly.
func LoadConfig(v *viper.Viper) (*Config, error) {
	format, err := models.ParseReferenceFormat(v.GetString("references.format"))
	if err != nil {
		return nil, err
	}

	policy, ok := subtitles.ParsePolicy(v.GetString("references.policy"))
	if !ok {
		return nil, fmt.Errorf("invalid overlap policy %q, expected \"bucket\" or \"point\"", v.GetString("references.policy"))
	}

	dialogue := v.GetString("dialogue_file")
	include := v.GetBool("references.include")
	if dialogue != "" && !v.IsSet("references.include") {
		include = true
	}

	config := &Config{
		QCFile:       v.GetString("qc_file"),
		DialogueFile: dialogue,
		SkipEdit:     v.GetBool("skip_edit"),
		References: ReferenceConfig{
			Include:    include,
			Categories: v.GetStringSlice("references.categories"),
			Format:     format,
			SkipPicker: v.GetBool("references.skip_picker"),
			Policy:     policy,
			Positioned: v.GetBool("references.positioned"),
		},
		Render: RenderConfig{
			Marker:          v.GetString("render.marker"),
			MergeCategories: v.GetStringSlice("render.merge_categories"),
			MergeLabel:      v.GetString("render.merge_label"),
		},
		Issue: IssueConfig{
			Create:  v.GetBool("issue.create"),
			Tracker: strings.ToLower(v.GetString("issue.tracker")),
			Title:   v.GetString("issue.title"),
			Labels:  v.GetStringSlice("issue.labels"),
		},
		GitHub: GitHubConfig{
			Token:  v.GetString("github.token"),
			Owner:  v.GetString("github.owner"),
			Repo:   v.GetString("github.repo"),
			Domain: v.GetString("github.domain"),
		},
		Jira: JiraConfig{
			URL:       v.GetString("jira.url"),
			Username:  v.GetString("jira.username"),
			Token:     v.GetString("jira.token"),
			Project:   v.GetString("jira.project"),
			IssueType: v.GetString("jira.issuetype"),
		},
	}

	if config.GitHub.Domain == "" {
		config.GitHub.Domain = "github.com"
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// validateConfig checks the settings every run needs.
func validateConfig(config *Config) error {
	if config.QCFile == "" {
		return fmt.Errorf("a QC file is required (--qc-file)")
	}
	if config.Issue.Create {
		switch config.Issue.Tracker {
		case TrackerGitHub:
			return ValidateGitHubConfig(config)
		case TrackerJira:
			return ValidateJiraConfig(config)
		default:
			return fmt.Errorf("unknown tracker %q, expected %q or %q", config.Issue.Tracker, TrackerGitHub, TrackerJira)
		}
	}
	return nil
}

// ValidateGitHubConfig validates the settings needed to open a GitHub issue.
func ValidateGitHubConfig(config *Config) error {
	var missingVars []string

	if config.GitHub.Token == "" {
		missingVars = append(missingVars, "GITHUB_TOKEN")
	}
	if config.GitHub.Owner == "" {
		missingVars = append(missingVars, "GITHUB_OWNER")
	}
	if config.GitHub.Repo == "" {
		missingVars = append(missingVars, "GITHUB_REPO")
	}
	if config.Issue.Title == "" {
		missingVars = append(missingVars, "--issue-title")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required settings for github upload: %v", missingVars)
	}
	return nil
}

// ValidateJiraConfig validates JIRA-specific configuration.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.URL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}
	if config.Jira.Username == "" {
		missingVars = append(missingVars, "JIRA_USERNAME")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}
	if config.Jira.Project == "" {
		missingVars = append(missingVars, "JIRA_PROJECT")
	}
	if config.Issue.Title == "" {
		missingVars = append(missingVars, "--issue-title")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required settings for jira upload: %v", missingVars)
	}
	return nil
}
