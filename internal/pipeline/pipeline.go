// Package pipeline runs a QC report through parsing, cross-referencing and
// rendering.
package pipeline

import (
	"context"
	"fmt"

	"github.com/danielolaszy/qcmd/internal/checklist"
	"github.com/danielolaszy/qcmd/internal/config"
	"github.com/danielolaszy/qcmd/internal/crossref"
	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/internal/report"
	"github.com/danielolaszy/qcmd/internal/subtitles"
	"github.com/danielolaszy/qcmd/pkg/models"
)

// Input is everything one run consumes.
type Input struct {
	// Report is the raw QC report text
	Report string

	// Track is the dialogue track; nil when none was supplied
	Track *subtitles.Track

	References config.ReferenceConfig
	Render     checklist.Options

	// Selector disambiguates multiple candidate references; nil selects all
	Selector crossref.Selector
}

// Result is the outcome of a run.
type Result struct {
	Issues   []models.Issue
	Document string
}

// Run parses the report, resolves references and renders the checklist.
// Any failure aborts the run before rendering.
func Run(ctx context.Context, in Input) (*Result, error) {
	issues, err := report.Parse(in.Report)
	if err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}

	var lookup crossref.Lookup
	events := 0
	if in.Track != nil {
		idx := subtitles.NewIndex(in.Track.Events,
			subtitles.WithPolicy(in.References.Policy),
			subtitles.WithPositioned(in.References.Positioned))
		events = idx.Len()
		logging.Debug("indexed dialogue track",
			"path", in.Track.Path,
			"events", events,
			"policy", idx.Policy().String())
		lookup = idx
	}

	selector := in.Selector
	if in.References.SkipPicker || selector == nil {
		selector = crossref.SelectAll{}
	}

	resolver := crossref.NewResolver(lookup, in.References.Include, in.References.Categories, in.References.Format, selector)
	resolved, err := resolver.ResolveAll(ctx, issues)
	if err != nil {
		return nil, fmt.Errorf("resolve references: %w", err)
	}

	logging.Info("processed report",
		"issues", len(resolved),
		"dialogue_track", in.Track != nil,
		"dialogue_events", events,
		"references", in.References.Include)

	return &Result{
		Issues:   resolved,
		Document: checklist.Render(resolved, in.Render),
	}, nil
}
