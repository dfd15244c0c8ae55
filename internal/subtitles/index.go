package subtitles

import (
	"sort"
	"strings"
	"time"

	"github.com/danielolaszy/qcmd/pkg/models"
)

// Policy selects how a timecode is matched against event intervals.
type Policy int

const (
	// PolicyBucket matches events overlapping the second [t, t+1s). It absorbs
	// encoder rounding where a line starts a few centiseconds after the
	// reviewer's timestamp.
	PolicyBucket Policy = iota
	// PolicyPoint matches events whose [start, end) contains t.
	PolicyPoint
)

// ParsePolicy maps a flag value to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch strings.ToLower(s) {
	case "", "bucket":
		return PolicyBucket, true
	case "point":
		return PolicyPoint, true
	}
	return PolicyBucket, false
}

func (p Policy) String() string {
	if p == PolicyPoint {
		return "point"
	}
	return "bucket"
}

// positionOverride marks a typeset sign rather than spoken dialogue.
const positionOverride = `\pos(`

// Index answers which dialogue events overlap a timecode.
// It never modifies the events it was built from and is safe for concurrent use.
type Index struct {
	events            []models.DialogueEvent
	order             []int
	policy            Policy
	includePositioned bool
}

// Option configures an Index.
type Option func(*Index)

// WithPolicy sets the overlap policy. The default is PolicyBucket.
func WithPolicy(p Policy) Option {
	return func(ix *Index) { ix.policy = p }
}

// WithPositioned controls whether events carrying a \pos override are candidates.
// They are excluded by default.
func WithPositioned(include bool) Option {
	return func(ix *Index) { ix.includePositioned = include }
}

// NewIndex builds an index over events. Events are visited in ascending start
// order; events with equal starts keep their file order.
func NewIndex(events []models.DialogueEvent, opts ...Option) *Index {
	ix := &Index{events: events, policy: PolicyBucket}
	for _, opt := range opts {
		opt(ix)
	}

	ix.order = make([]int, len(events))
	for i := range ix.order {
		ix.order[i] = i
	}
	sort.SliceStable(ix.order, func(a, b int) bool {
		return events[ix.order[a]].Start < events[ix.order[b]].Start
	})
	return ix
}

// Len returns the number of events in the index.
func (ix *Index) Len() int {
	return len(ix.events)
}

// Policy returns the overlap policy in use.
func (ix *Index) Policy() Policy {
	return ix.policy
}

// Overlapping returns the events matching tc under the index policy, in
// ascending start order.
func (ix *Index) Overlapping(tc models.Timecode) []models.DialogueEvent {
	lo, hi := tc, tc
	if ix.policy == PolicyBucket {
		lo = models.Timecode(tc.Duration().Truncate(time.Second))
		hi = lo + models.Timecode(time.Second)
	}

	var out []models.DialogueEvent
	for _, i := range ix.order {
		ev := ix.events[i]
		// order is sorted by start, nothing later can match
		if ix.policy == PolicyBucket && ev.Start >= hi {
			break
		}
		if ix.policy == PolicyPoint && ev.Start > tc {
			break
		}
		if !ix.matches(ev, lo, hi) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (ix *Index) matches(ev models.DialogueEvent, lo, hi models.Timecode) bool {
	if ev.Comment {
		return false
	}
	if !ix.includePositioned && strings.Contains(ev.Text, positionOverride) {
		return false
	}
	if ix.policy == PolicyPoint {
		return ev.Start <= lo && lo < ev.End
	}
	return ev.Start < hi && ev.End > lo
}
