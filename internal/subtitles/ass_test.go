package subtitles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/qcmd/pkg/models"
)

const sampleASS = `[Script Info]
Title: Sample
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize
Style: Default,Arial,20

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:10.00,0:00:12.50,Default,Alice,0,0,0,,Hello, world
Comment: 0,0:00:11.00,0:00:12.00,Default,,0,0,0,,translator note
Dialogue: 1,0:00:12.50,0:00:15.00,Signs,,10,10,20,,{\pos(320,50)}EXIT
`

func TestParseASS(t *testing.T) {
	track, err := ParseASS(strings.NewReader(sampleASS))
	require.NoError(t, err)
	require.Len(t, track.Events, 3)

	first := track.Events[0]
	assert.Equal(t, models.Timecode(10*time.Second), first.Start)
	assert.Equal(t, models.Timecode(12500*time.Millisecond), first.End)
	assert.Equal(t, "Alice", first.Name)
	assert.Equal(t, "Hello, world", first.Text)
	assert.False(t, first.Comment)
	assert.Equal(t, "Dialogue: 0,0:00:10.00,0:00:12.50,Default,Alice,0,0,0,,Hello, world", first.Line())

	assert.True(t, track.Events[1].Comment)
	assert.Equal(t, 1, track.Events[2].Layer)
	assert.Equal(t, 20, track.Events[2].MarginV)
}

func TestParseASSCustomFormat(t *testing.T) {
	script := "[Events]\nFormat: Start, End, Text\nDialogue: 0:00:01.00,0:00:02.00,short, form\n"

	track, err := ParseASS(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, track.Events, 1)
	assert.Equal(t, "short, form", track.Events[0].Text)
	assert.Equal(t, models.NewTimecode(1), track.Events[0].Start)
}

func TestParseASSErrors(t *testing.T) {
	testCases := []struct {
		name   string
		script string
	}{
		{name: "Bad timestamp", script: "[Events]\nDialogue: 0,0:00:xx.00,0:00:02.00,Default,,0,0,0,,text\n"},
		{name: "Too few fields", script: "[Events]\nDialogue: 0,0:00:01.00\n"},
		{name: "NaN seconds", script: "[Events]\nDialogue: 0,0:00:NaN,0:00:02.00,Default,,0,0,0,,text\n"},
		{name: "Infinite seconds", script: "[Events]\nDialogue: 0,0:00:+Inf,0:00:02.00,Default,,0,0,0,,text\n"},
		{name: "Exponent seconds", script: "[Events]\nDialogue: 0,0:00:1e3,0:00:02.00,Default,,0,0,0,,text\n"},
		{name: "Minute out of range", script: "[Events]\nDialogue: 0,0:60:00.00,0:61:00.00,Default,,0,0,0,,text\n"},
		{name: "Second out of range", script: "[Events]\nDialogue: 0,0:00:60.00,0:00:61.00,Default,,0,0,0,,text\n"},
		{name: "Signed minute", script: "[Events]\nDialogue: 0,0:-1:00.00,0:00:02.00,Default,,0,0,0,,text\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseASS(strings.NewReader(tc.script))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestParseASSTimestamp(t *testing.T) {
	testCases := []struct {
		raw      string
		expected time.Duration
	}{
		{raw: "0:00:01.00", expected: time.Second},
		{raw: "0:00:01", expected: time.Second},
		{raw: "1:02:03.45", expected: time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond},
		{raw: "0:00:00.5", expected: 500 * time.Millisecond},
		{raw: "0:00:00.1239", expected: 123 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := parseASSTimestamp(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Duration())
		})
	}

	for _, raw := range []string{"0:00:NaN", "0:00:+Inf", "0:00:1e3", "0:00:01.x", "0:00", ""} {
		_, err := parseASSTimestamp(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseASSKeepsTrailingTextSpaces(t *testing.T) {
	script := "[Events]  \r\n  Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,trailing   \r\n"

	track, err := ParseASS(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, track.Events, 1)
	assert.Equal(t, "trailing   ", track.Events[0].Text)
}

func TestParseSRT(t *testing.T) {
	srt := "1\r\n00:00:01,000 --> 00:00:02,500\r\nFirst line\r\nsecond line\r\n\r\n2\n00:01:00.25 --> 00:01:03,000 X1:10\nNext\n"

	track, err := ParseSRT(strings.NewReader(srt))
	require.NoError(t, err)
	require.Len(t, track.Events, 2)

	assert.Equal(t, `First line\Nsecond line`, track.Events[0].Text)
	assert.Equal(t, models.Timecode(2500*time.Millisecond), track.Events[0].End)
	assert.Equal(t, models.Timecode(60250*time.Millisecond), track.Events[1].Start)
	assert.Equal(t, "Next", track.Events[1].Text)
}

func TestParseSRTErrors(t *testing.T) {
	_, err := ParseSRT(strings.NewReader("one\n00:00:01,000 --> 00:00:02,000\ntext\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cue number")

	_, err = ParseSRT(strings.NewReader("1\n00:00:01,000 --> nope\ntext\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	assPath := filepath.Join(dir, "episode.ass")
	require.NoError(t, os.WriteFile(assPath, []byte(sampleASS), 0o644))
	track, err := Load(assPath)
	require.NoError(t, err)
	assert.Equal(t, assPath, track.Path)
	assert.Len(t, track.Events, 3)

	txtPath := filepath.Join(dir, "episode.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err = Load(txtPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")

	_, err = Load(filepath.Join(dir, "missing.ass"))
	require.Error(t, err)
}
