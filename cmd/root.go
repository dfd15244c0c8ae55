// Package cmd provides the command-line interface for qcmd.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/qcmd/internal/config"
	"github.com/danielolaszy/qcmd/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "qcmd",
	Short: "Turn an mpvQC report into a Markdown checklist",
	Long: `qcmd converts a quality-control report written with mpvQC into a Markdown
checklist grouped by category.

When a dialogue file (.ass, .ssa or .srt) is given, each issue in an eligible
category is annotated with the dialogue line(s) spoken at its timestamp. If
several lines overlap, a picker asks which ones the issue refers to.

The checklist is printed to stdout, or uploaded as a GitHub issue or JIRA
ticket with --create-issue.

Example:
  qcmd -q episode01.txt -d episode01.ass
  qcmd -q episode01.txt -s -c --issue-title "Episode 01 QC"`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logging.SetupLogger(os.Stderr, logging.LevelDebug)
		}
	},
	RunE: runRender,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./qcmd.yaml or ~/.config/qcmd/qcmd.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	addRenderFlags(rootCmd)

	rootCmd.AddCommand(summaryCmd)
}

// loadConfig resolves configuration for cmd from its flags, the environment
// and the optional config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := config.ReadFile(v, path); err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.LoadConfig(v)
}
