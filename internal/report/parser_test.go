package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTimecode(t *testing.T) {
	testCases := []struct {
		name        string
		token       string
		wantSeconds uint64
		wantErr     bool
	}{
		{name: "Hours minutes seconds", token: "01:02:03", wantSeconds: 3723},
		{name: "Zero", token: "00:00:00", wantSeconds: 0},
		{name: "Three digit hour", token: "123:00:00", wantSeconds: 442800},
		{name: "Minute out of range", token: "00:60:00", wantErr: true},
		{name: "Second out of range", token: "00:00:60", wantErr: true},
		{name: "Hour overflow", token: "99999999999999999999:00:00", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := decodeTimecode(tc.token)
			if tc.wantErr {
				assert.NotEmpty(t, reason)
				return
			}
			assert.Empty(t, reason)
			assert.Equal(t, tc.wantSeconds, got.Seconds())
		})
	}
}

func TestParseCommaLayout(t *testing.T) {
	raw := "00:00:05,Spelling,typo in line\n00:00:05,Spelling,another typo\n"

	issues, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, "Spelling", issues[0].Category)
	assert.Equal(t, "typo in line", issues[0].Text)
	assert.Equal(t, uint64(5), issues[0].Timecode.Seconds())
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "another typo", issues[1].Text)
	assert.Equal(t, 2, issues[1].Line)
	assert.False(t, issues[0].Referenced)
}

func TestParseMpvQCLayout(t *testing.T) {
	raw := `[FILE]
date      : 2024-01-01
generator : mpvQC

[DATA]
[00:01:02] [Translation] Should be "we", not "I"
[01:00:00] [Phrasing] awkward, reads stiffly
# total lines: 2
`

	issues, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, uint64(62), issues[0].Timecode.Seconds())
	assert.Equal(t, "Translation", issues[0].Category)
	assert.Equal(t, `Should be "we", not "I"`, issues[0].Text)
	assert.Equal(t, 6, issues[0].Line)
	assert.Equal(t, "awkward, reads stiffly", issues[1].Text)
}

func TestParseKeepsCategoryVerbatim(t *testing.T) {
	issues, err := Parse("00:00:01,spelling,a\n00:00:02,Spelling,b\r\n00:00:03, Spelling,c\n")
	require.NoError(t, err)
	require.Len(t, issues, 3)

	assert.Equal(t, "spelling", issues[0].Category)
	assert.Equal(t, "Spelling", issues[1].Category)
	assert.Equal(t, "b", issues[1].Text)
	assert.Equal(t, " Spelling", issues[2].Category)
}

func TestParseSkipsUnrecognisedLines(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want int
	}{
		{name: "Empty input", raw: "", want: 0},
		{name: "Only header", raw: "[FILE]\ngenerator : mpvQC\n", want: 0},
		{name: "Blank lines between data", raw: "\n00:00:01,Note,a\n\n\n00:00:02,Note,b\n", want: 2},
		{name: "Timecode without category", raw: "00:00:01 nothing else\n", want: 0},
		{name: "Short timecode", raw: "0:1:02,Note,bad shape\n", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issues, err := Parse(tc.raw)
			require.NoError(t, err)
			assert.Len(t, issues, tc.want)
		})
	}
}

func TestParseInvalidTimecode(t *testing.T) {
	raw := "00:00:01,Note,fine\n00:61:00,Note,bad minute\n00:00:02,Note,never reached\n"

	issues, err := Parse(raw)
	require.Error(t, err)
	assert.Nil(t, issues)
	assert.True(t, errors.Is(err, ErrInvalidTimecode))

	var tcErr *InvalidTimecodeError
	require.True(t, errors.As(err, &tcErr))
	assert.Equal(t, 2, tcErr.Line)
	assert.Equal(t, "00:61:00,Note,bad minute", tcErr.Raw)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseMalformedReport(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "Invalid UTF-8", raw: "\xff\xfe\x00\x01"},
		{name: "NUL bytes only", raw: "\x00\x01\x02\x03"},
		{name: "Binary with newlines", raw: "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedReport))
		})
	}
}

func TestParseToleratesStrayBytes(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "ANSI escape in text",
			raw:      "00:00:01,Note,ok\n00:00:02,Note,see \x1b[31mred\x1b[0m\n",
			expected: []string{"ok", "see \x1b[31mred\x1b[0m"},
		},
		{
			name:     "Latin-1 byte in text",
			raw:      "00:00:01,Note,ok\n00:00:02,Note,caf\xe9\n",
			expected: []string{"ok", "caf\xe9"},
		},
		{
			name:     "NUL in ignorable header",
			raw:      "[FILE]\x00\n00:00:01,Note,ok\n",
			expected: []string{"ok"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issues, err := Parse(tc.raw)
			require.NoError(t, err)
			require.Len(t, issues, len(tc.expected))
			for i, text := range tc.expected {
				assert.Equal(t, text, issues[i].Text)
			}
		})
	}
}
