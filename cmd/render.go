package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/qcmd/internal/checklist"
	"github.com/danielolaszy/qcmd/internal/config"
	"github.com/danielolaszy/qcmd/internal/crossref"
	"github.com/danielolaszy/qcmd/internal/editor"
	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/internal/picker"
	"github.com/danielolaszy/qcmd/internal/pipeline"
	"github.com/danielolaszy/qcmd/internal/subtitles"
)

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("qc-file", "q", "", "Path to the mpvQC file to be processed")
	f.StringP("dialogue-file", "d", "", "Path to dialogue file (.ass, .ssa, .srt); will include relevant line references for notes if provided")
	f.BoolP("skip-edit", "s", false, "Skips the editing prompt; useful for scripts")

	f.BoolP("include-references", "r", false, "Add quotation blocks for line references above report entries; defaults to true if --dialogue-file is specified")
	f.StringSlice("reference-categories", crossref.DefaultCategories, "Categories of reports to include references for")
	f.Bool("skip-reference-picker", false, "Skips picker for refs; will include all refs if set")
	f.String("reference-format", "full", `Format for references; "full" includes the full line, "text" includes only text`)
	f.String("overlap-policy", "bucket", `How issue timestamps match dialogue; "bucket" matches lines overlapping the whole second, "point" only lines showing at the exact instant`)
	f.Bool("include-positioned", false, `Also reference lines carrying a \pos override (typeset signs)`)

	f.String("marker", checklist.DefaultMarker, "Checklist marker placed before each issue")
	f.StringSlice("merge-categories", nil, "Categories folded into a single section")
	f.String("merge-label", checklist.DefaultMergeLabel, "Heading of the merged section")

	f.BoolP("create-issue", "c", false, "Creates an issue in the tracker; if not specified, Markdown will be printed to stdout")
	f.String("tracker", config.TrackerGitHub, `Issue tracker to upload to; "github" or "jira"`)
	f.String("issue-title", "", "Title for issue being created")
	f.StringSlice("issue-labels", nil, "Labels for the created issue")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(cfg.QCFile)
	if err != nil {
		return fmt.Errorf("read QC file: %w", err)
	}

	var track *subtitles.Track
	if cfg.DialogueFile != "" {
		track, err = subtitles.Load(cfg.DialogueFile)
		if err != nil {
			return err
		}
	}

	logging.Info("rendering checklist",
		"qc_file", cfg.QCFile,
		"dialogue_file", cfg.DialogueFile,
		"include_references", cfg.References.Include,
		"overlap_policy", cfg.References.Policy.String())

	var selector crossref.Selector = crossref.SelectAll{}
	if !cfg.References.SkipPicker {
		selector = picker.New(os.Stdin, os.Stderr)
	}

	result, err := pipeline.Run(cmd.Context(), pipeline.Input{
		Report:     string(raw),
		Track:      track,
		References: cfg.References,
		Render: checklist.Options{
			Marker:          cfg.Render.Marker,
			MergeCategories: cfg.Render.MergeCategories,
			MergeLabel:      cfg.Render.MergeLabel,
		},
		Selector: selector,
	})
	if err != nil {
		return err
	}

	text := result.Document
	if !cfg.SkipEdit {
		text, err = editor.New(text, os.Stdin, os.Stderr).Prompt()
		if err != nil {
			return err
		}
	}

	return publish(cmd.Context(), cfg, text, cmd.OutOrStdout())
}
