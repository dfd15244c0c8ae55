package checklist

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/qcmd/pkg/models"
)

func issue(seconds uint64, category, text string) models.Issue {
	return models.Issue{Timecode: models.NewTimecode(seconds), Category: category, Text: text}
}

func TestRenderSingleGroupWithoutReferences(t *testing.T) {
	issues := []models.Issue{
		issue(5, "Spelling", "typo in line"),
		issue(5, "Spelling", "another typo"),
	}

	want := "# Spelling\n" +
		"- [ ] 00:00:05 - typo in line\n" +
		"- [ ] 00:00:05 - another typo\n" +
		"\n"
	assert.Equal(t, want, Render(issues, Options{}))
}

func TestRenderOrdering(t *testing.T) {
	issues := []models.Issue{
		issue(30, "Timing", "t1"),
		issue(20, "Spelling", "s1"),
		issue(10, "Spelling", "s2"),
		issue(20, "Spelling", "s3"),
		issue(3723, "Note", "n1"),
		issue(1, "Timing", "t2"),
	}

	want := "# Spelling\n" +
		"* [ ] 00:00:10 - s2\n" +
		"* [ ] 00:00:20 - s1\n" +
		"* [ ] 00:00:20 - s3\n" +
		"\n" +
		"# Timing\n" +
		"* [ ] 00:00:01 - t2\n" +
		"* [ ] 00:00:30 - t1\n" +
		"\n" +
		"# Note\n" +
		"* [ ] 01:02:03 - n1\n" +
		"\n"
	assert.Equal(t, want, Render(issues, Options{Marker: "* [ ]"}))
}

func TestRenderTieBreakIsDeterministic(t *testing.T) {
	issues := []models.Issue{
		issue(1, "Beta", "b"),
		issue(2, "Alpha", "a"),
		issue(3, "Gamma", "g"),
	}

	first := Render(issues, Options{})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Render(issues, Options{}))
	}
	assert.True(t, strings.HasPrefix(first, "# Beta\n"))
}

func TestRenderReferences(t *testing.T) {
	issues := []models.Issue{
		issue(1, "Spelling", "plain"),
		issue(2, "Spelling", "quoted").WithReferences([]models.ReferenceLine{"Hello", "World"}),
		issue(3, "Spelling", "requested but empty").WithReferences(nil),
	}

	want := "# Spelling\n" +
		"- [ ] 00:00:01 - plain\n" +
		"> Hello\n" +
		"> World\n" +
		"- [ ] 00:00:02 - quoted\n" +
		">\n" +
		"- [ ] 00:00:03 - requested but empty\n" +
		"\n"
	assert.Equal(t, want, Render(issues, Options{}))
}

func TestGroupRoundTrip(t *testing.T) {
	categories := []string{"Spelling", "spelling", "Note", "Spelling", "Timing", "Note", "Spelling"}
	var issues []models.Issue
	for i, c := range categories {
		issues = append(issues, issue(uint64(i), c, fmt.Sprintf("issue %d", i)))
	}

	groups := Arrange(issues, Options{})

	counts := make(map[string]int)
	for _, c := range categories {
		counts[c]++
	}
	total := 0
	for _, g := range groups {
		assert.Equal(t, counts[g.Category], len(g.Issues), g.Category)
		total += len(g.Issues)
	}
	assert.Equal(t, len(issues), total)
	assert.Len(t, groups, 4)
	assert.Equal(t, "Spelling", groups[0].Category)
}

func TestMerge(t *testing.T) {
	issues := []models.Issue{
		issue(40, "Timing", "t"),
		issue(30, "Note", "n1"),
		issue(10, "Phrasing", "p1"),
		issue(20, "Note", "n2"),
		issue(5, "Dialogue", "d1"),
	}

	groups := Merge(Group(issues), []string{"Note", "Phrasing"}, "")
	require.Len(t, groups, 2)
	assert.Equal(t, "Timing", groups[0].Category)
	assert.Equal(t, "Dialogue", groups[1].Category)

	var texts []string
	for _, i := range groups[1].Issues {
		texts = append(texts, i.Text)
	}
	assert.Equal(t, []string{"d1", "p1", "n2", "n1"}, texts)
}

func TestMergeWithoutMatches(t *testing.T) {
	groups := Group([]models.Issue{issue(1, "Timing", "t")})
	assert.Equal(t, groups, Merge(groups, []string{"Note"}, "Notes"))
	assert.Equal(t, groups, Merge(groups, nil, ""))
}

func TestRenderMergedGroup(t *testing.T) {
	issues := []models.Issue{
		issue(9, "Note", "late note"),
		issue(2, "Translation", "early translation"),
		issue(1, "Timing", "timing"),
	}

	out := Render(issues, Options{MergeCategories: []string{"Note", "Translation"}, MergeLabel: "Lines"})
	want := "# Lines\n" +
		"- [ ] 00:00:02 - early translation\n" +
		"- [ ] 00:00:09 - late note\n" +
		"\n" +
		"# Timing\n" +
		"- [ ] 00:00:01 - timing\n" +
		"\n"
	assert.Equal(t, want, out)
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render(nil, Options{}))
}
