// Package crossref attaches the dialogue lines spoken at an issue's
// timecode to the issue.
package crossref

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/pkg/models"
)

// ErrReferenceSelectionFailed is returned when the selector could not
// produce a choice, for example because its input was closed.
var ErrReferenceSelectionFailed = errors.New("reference selection failed")

// DefaultCategories are the categories references are attached to unless
// configured otherwise.
var DefaultCategories = []string{"Linebreak", "Translation", "Spelling", "Punctuation", "Phrasing", "Note"}

// Lookup answers which dialogue events overlap a timecode.
type Lookup interface {
	Overlapping(tc models.Timecode) []models.DialogueEvent
}

// Selector chooses among several candidate references for one issue.
type Selector interface {
	Select(issue models.Issue, candidates []models.ReferenceLine) ([]models.ReferenceLine, error)
}

// Interactive is implemented by selectors that block on user input.
// Such selectors are never called concurrently.
type Interactive interface {
	Interactive() bool
}

// SelectAll keeps every candidate. It is used when the picker is skipped.
type SelectAll struct{}

// Select returns all candidates.
func (SelectAll) Select(_ models.Issue, candidates []models.ReferenceLine) ([]models.ReferenceLine, error) {
	return candidates, nil
}

// Resolver resolves the references of issues.
type Resolver struct {
	// Index is the dialogue lookup; nil when no dialogue track was supplied
	Index Lookup

	// Include toggles reference resolution globally
	Include bool

	// Eligible is the set of categories references are resolved for
	Eligible map[string]bool

	// Format controls how dialogue events become reference lines
	Format models.ReferenceFormat

	// Selector picks among multiple candidates; nil means SelectAll
	Selector Selector
}

// NewResolver builds a resolver for the given eligible categories.
// A nil idx (no dialogue track) disables resolution.
func NewResolver(idx Lookup, include bool, categories []string, format models.ReferenceFormat, selector Selector) *Resolver {
	eligible := make(map[string]bool, len(categories))
	for _, c := range categories {
		eligible[c] = true
	}
	return &Resolver{
		Index:    idx,
		Include:  include,
		Eligible: eligible,
		Format:   format,
		Selector: selector,
	}
}

// Applies reports whether references are resolved for the category.
func (r *Resolver) Applies(category string) bool {
	return r.Index != nil && r.Include && r.Eligible[category]
}

// Resolve returns the issue with its references attached. Issues that are
// not eligible are returned unchanged.
func (r *Resolver) Resolve(issue models.Issue) (models.Issue, error) {
	if !r.Applies(issue.Category) {
		return issue, nil
	}

	events := r.Index.Overlapping(issue.Timecode)
	candidates := make([]models.ReferenceLine, 0, len(events))
	for _, ev := range events {
		candidates = append(candidates, models.NewReferenceLine(ev, r.Format))
	}

	if len(candidates) <= 1 {
		return issue.WithReferences(candidates), nil
	}

	selected, err := r.selector().Select(issue, candidates)
	if err != nil {
		return models.Issue{}, fmt.Errorf("%w: issue at %s (line %d): %w",
			ErrReferenceSelectionFailed, issue.Timecode, issue.Line, err)
	}

	logging.Debug("selected references",
		"timecode", issue.Timecode.String(),
		"candidates", len(candidates),
		"selected", len(selected))

	return issue.WithReferences(selected), nil
}

// ResolveAll resolves every issue and returns them in input order.
// Interactive selectors are driven one issue at a time; otherwise issues are
// resolved in parallel.
func (r *Resolver) ResolveAll(ctx context.Context, issues []models.Issue) ([]models.Issue, error) {
	out := make([]models.Issue, len(issues))

	if r.interactive() {
		for i, issue := range issues {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			resolved, err := r.Resolve(issue)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, issue := range issues {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resolved, err := r.Resolve(issue)
			if err != nil {
				return err
			}
			out[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) selector() Selector {
	if r.Selector == nil {
		return SelectAll{}
	}
	return r.Selector
}

func (r *Resolver) interactive() bool {
	s, ok := r.selector().(Interactive)
	return ok && s.Interactive()
}
