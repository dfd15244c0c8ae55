// Package models defines data structures shared across the application.
package models

import (
	"fmt"
	"time"
)

// Timecode is a non-negative offset into the reviewed media.
// Report timecodes have whole-second resolution; dialogue events keep
// the precision of the subtitle file.
type Timecode time.Duration

// NewTimecode builds a Timecode from whole seconds.
func NewTimecode(seconds uint64) Timecode {
	return Timecode(time.Duration(seconds) * time.Second)
}

// Duration returns the timecode as a time.Duration.
func (t Timecode) Duration() time.Duration {
	return time.Duration(t)
}

// Seconds returns the number of whole seconds in the timecode.
func (t Timecode) Seconds() uint64 {
	return uint64(time.Duration(t) / time.Second)
}

// String renders the timecode as HH:MM:SS. Hours are not capped.
func (t Timecode) String() string {
	total := t.Seconds()
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// Issue represents one finding from a QC report.
type Issue struct {
	// Timecode is where in the media the finding applies
	Timecode Timecode

	// Category is the free-form label written by the reviewer (e.g., "Spelling")
	Category string

	// Text is the reviewer's commentary
	Text string

	// Line is the 1-based line number in the source report
	Line int

	// References holds the dialogue lines attached during cross-referencing
	References []ReferenceLine

	// Referenced indicates whether cross-referencing was applied to this issue,
	// even if it resolved to no lines
	Referenced bool
}

// WithReferences returns a copy of the issue carrying the given references.
func (i Issue) WithReferences(refs []ReferenceLine) Issue {
	out := i
	out.References = append([]ReferenceLine(nil), refs...)
	out.Referenced = true
	return out
}

// DialogueEvent is one spoken line from a subtitle track.
type DialogueEvent struct {
	// Start is the inclusive start of the event
	Start Timecode

	// End is the exclusive end of the event
	End Timecode

	// Text is the displayed text including any override tags
	Text string

	// Layer, Style, Name, margins and Effect carry the ASS event metadata
	Layer   int
	Style   string
	Name    string
	MarginL int
	MarginR int
	MarginV int
	Effect  string

	// Comment marks events that are commented out in the source file
	Comment bool
}

// Line renders the event as a full ASS event line.
func (e DialogueEvent) Line() string {
	kind := "Dialogue"
	if e.Comment {
		kind = "Comment"
	}
	return fmt.Sprintf("%s: %d,%s,%s,%s,%s,%d,%d,%d,%s,%s",
		kind, e.Layer, assTimestamp(e.Start), assTimestamp(e.End),
		e.Style, e.Name, e.MarginL, e.MarginR, e.MarginV, e.Effect, e.Text)
}

func assTimestamp(t Timecode) string {
	d := t.Duration()
	cs := (d % time.Second) / (10 * time.Millisecond)
	s := uint64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d.%02d", s/3600, (s/60)%60, s%60, cs)
}

// ReferenceFormat selects how a dialogue event is rendered as a reference.
type ReferenceFormat string

const (
	// ReferenceFormatFull renders the whole source line, including style and speaker.
	ReferenceFormatFull ReferenceFormat = "full"
	// ReferenceFormatText renders only the spoken text.
	ReferenceFormatText ReferenceFormat = "text"
)

// ParseReferenceFormat validates a user supplied format name.
func ParseReferenceFormat(s string) (ReferenceFormat, error) {
	switch ReferenceFormat(s) {
	case ReferenceFormatFull, ReferenceFormatText:
		return ReferenceFormat(s), nil
	}
	return "", fmt.Errorf("invalid reference format %q, expected %q or %q", s, ReferenceFormatFull, ReferenceFormatText)
}

// ReferenceLine is a dialogue line attached to an issue.
type ReferenceLine string

// NewReferenceLine derives a reference from a dialogue event.
func NewReferenceLine(ev DialogueEvent, format ReferenceFormat) ReferenceLine {
	if format == ReferenceFormatText {
		return ReferenceLine(ev.Text)
	}
	return ReferenceLine(ev.Line())
}

// IssueGroup is the set of issues sharing one category.
type IssueGroup struct {
	// Category is the exact category string shared by every issue in the group
	Category string

	// Issues are the members of the group
	Issues []Issue
}

// UploadedIssue identifies a checklist posted to an issue tracker.
type UploadedIssue struct {
	// Tracker is the tracker name (e.g., "github", "jira")
	Tracker string

	// Key is the tracker's identifier (e.g., "owner/repo#12" or "QC-42")
	Key string

	// URL links to the created issue, when the tracker reports one
	URL string
}
