package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/danielolaszy/qcmd/internal/checklist"
	"github.com/danielolaszy/qcmd/internal/report"
	"github.com/danielolaszy/qcmd/pkg/models"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show issue counts per category",
	Long: `Print a table with the number of issues in each category of a QC report,
in the order the checklist would list them.

Example:
  qcmd summary -q episode01.txt --merge-categories Note,Phrasing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(cfg.QCFile)
		if err != nil {
			return fmt.Errorf("read QC file: %w", err)
		}

		issues, err := report.Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse report: %w", err)
		}

		groups := checklist.Arrange(issues, checklist.Options{
			MergeCategories: cfg.Render.MergeCategories,
			MergeLabel:      cfg.Render.MergeLabel,
		})
		_, err = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(groups))
		return err
	},
}

func init() {
	f := summaryCmd.Flags()
	f.StringP("qc-file", "q", "", "Path to the mpvQC file to be processed")
	f.StringSlice("merge-categories", nil, "Categories folded into a single section")
	f.String("merge-label", checklist.DefaultMergeLabel, "Heading of the merged section")
}

// renderSummary lays out one row per group plus a total row.
func renderSummary(groups []models.IssueGroup) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Category", "Issues", "First", "Last"})

	total := 0
	for _, g := range groups {
		first, last := g.Issues[0].Timecode, g.Issues[len(g.Issues)-1].Timecode
		tw.AppendRow(table.Row{g.Category, strconv.Itoa(len(g.Issues)), first.String(), last.String()})
		total += len(g.Issues)
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(total), "", ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}
