// Package report parses QC reports into issues.
package report

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// lineKind classifies one line of a report.
type lineKind int

const (
	lineIgnored lineKind = iota
	lineData
)

// dataLine holds the raw tokens captured from a data line.
type dataLine struct {
	timecode string
	category string
	text     string
}

// Each layout hard-codes its separator literal. The comma layout is
// "HH:MM:SS,Category,text"; the mpvQC layout is "[HH:MM:SS] [Category] text".
var dataLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+:\d{2}:\d{2}),([^,]+),(.*)$`),
	regexp.MustCompile(`^\[(\d+:\d{2}:\d{2})\] \[([^\]]+)\] (.*)$`),
}

// classifyLine matches a single line against the data-line layouts.
// Lines that fit no layout are ignorable, never an error.
func classifyLine(line string) (lineKind, dataLine) {
	line = strings.TrimSuffix(line, "\r")
	for _, re := range dataLinePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return lineData, dataLine{timecode: m[1], category: m[2], text: m[3]}
	}
	return lineIgnored, dataLine{}
}

// hasTextStructure reports whether raw looks like a text document at all.
// Invalid UTF-8, NUL bytes and other binary control characters fail it.
func hasTextStructure(raw string) bool {
	if !utf8.ValidString(raw) {
		return false
	}
	for _, r := range raw {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' && r != '\f' {
			return false
		}
	}
	return true
}

// splitLines splits the report on line feeds. A trailing newline does not
// produce an extra empty line.
func splitLines(raw string) []string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
