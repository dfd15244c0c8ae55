// Package checklist groups issues by category and renders them as a
// Markdown checklist.
package checklist

import (
	"slices"
	"strings"

	"github.com/danielolaszy/qcmd/pkg/models"
)

const (
	// DefaultMarker prefixes every checklist line.
	DefaultMarker = "- [ ]"
	// DefaultMergeLabel is the heading of the merged group.
	DefaultMergeLabel = "Dialogue"
)

// Options controls rendering.
type Options struct {
	// Marker is the checklist prefix; empty means DefaultMarker
	Marker string

	// MergeCategories are folded into a single group before rendering
	MergeCategories []string

	// MergeLabel is the heading of the merged group; empty means DefaultMergeLabel
	MergeLabel string
}

// Group buckets issues by exact category string. Groups are returned in the
// order their category first appears; members keep their input order.
func Group(issues []models.Issue) []models.IssueGroup {
	var groups []models.IssueGroup
	index := make(map[string]int)
	for _, issue := range issues {
		i, ok := index[issue.Category]
		if !ok {
			i = len(groups)
			index[issue.Category] = i
			groups = append(groups, models.IssueGroup{Category: issue.Category})
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}
	return groups
}

// Merge removes the named categories from groups and appends their issues,
// sorted by timecode, as one group called label. An existing group already
// named label is folded in too. The merged group takes the position of the
// first group it absorbed.
func Merge(groups []models.IssueGroup, names []string, label string) []models.IssueGroup {
	if len(names) == 0 {
		return groups
	}
	if label == "" {
		label = DefaultMergeLabel
	}

	fold := make(map[string]bool, len(names)+1)
	for _, n := range names {
		fold[n] = true
	}
	fold[label] = true

	var (
		out    []models.IssueGroup
		merged []models.Issue
		at     = -1
	)
	for _, g := range groups {
		if !fold[g.Category] {
			out = append(out, g)
			continue
		}
		if at < 0 {
			at = len(out)
			out = append(out, models.IssueGroup{})
		}
		merged = append(merged, g.Issues...)
	}
	if at < 0 {
		return groups
	}

	sortByTimecode(merged)
	out[at] = models.IssueGroup{Category: label, Issues: merged}
	return out
}

// Arrange applies merging, orders groups by descending size and sorts each
// group's issues by timecode. Ties between equally sized groups keep first
// appearance order.
func Arrange(issues []models.Issue, opts Options) []models.IssueGroup {
	groups := Merge(Group(issues), opts.MergeCategories, opts.MergeLabel)

	slices.SortStableFunc(groups, func(a, b models.IssueGroup) int {
		return len(b.Issues) - len(a.Issues)
	})
	for i := range groups {
		groups[i].Issues = slices.Clone(groups[i].Issues)
		sortByTimecode(groups[i].Issues)
	}
	return groups
}

// Render produces the checklist document.
func Render(issues []models.Issue, opts Options) string {
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	var b strings.Builder
	for _, g := range Arrange(issues, opts) {
		b.WriteString("# ")
		b.WriteString(g.Category)
		b.WriteString("\n")
		for _, issue := range g.Issues {
			writeReferences(&b, issue)
			b.WriteString(marker)
			b.WriteString(" ")
			b.WriteString(issue.Timecode.String())
			b.WriteString(" - ")
			b.WriteString(issue.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeReferences(b *strings.Builder, issue models.Issue) {
	if !issue.Referenced {
		return
	}
	if len(issue.References) == 0 {
		b.WriteString(">\n")
		return
	}
	for _, ref := range issue.References {
		b.WriteString("> ")
		b.WriteString(string(ref))
		b.WriteString("\n")
	}
}

func sortByTimecode(issues []models.Issue) {
	slices.SortStableFunc(issues, func(a, b models.Issue) int {
		switch {
		case a.Timecode < b.Timecode:
			return -1
		case a.Timecode > b.Timecode:
			return 1
		}
		return 0
	})
}
