package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/danielolaszy/qcmd/pkg/models"
)

// defaultEventFormat is the ASS v4+ column order used when a file has no
// Format line in its [Events] section.
var defaultEventFormat = []string{
	"layer", "start", "end", "style", "name",
	"marginl", "marginr", "marginv", "effect", "text",
}

// ParseASS reads the [Events] section of an ASS or SSA script.
func ParseASS(r io.Reader) (*Track, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	track := &Track{}
	inEvents := false
	format := defaultEventFormat
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		// Trailing spaces belong to the Text column, so only the left side is trimmed.
		line := strings.TrimLeft(strings.TrimSuffix(scanner.Text(), "\r"), " \t")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inEvents = strings.EqualFold(trimmed, "[Events]")
			continue
		}
		if !inEvents {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimLeft(value, " ")

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "format":
			format = parseEventFormat(value)
		case "dialogue", "comment":
			ev, err := parseASSEvent(value, format)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			ev.Comment = strings.EqualFold(strings.TrimSpace(key), "comment")
			track.Events = append(track.Events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return track, nil
}

func parseEventFormat(value string) []string {
	fields := strings.Split(value, ",")
	format := make([]string, 0, len(fields))
	for _, f := range fields {
		format = append(format, strings.ToLower(strings.TrimSpace(f)))
	}
	return format
}

// parseASSEvent splits an event body by the format columns. Text is always
// the last column and may itself contain commas.
func parseASSEvent(value string, format []string) (models.DialogueEvent, error) {
	var ev models.DialogueEvent

	fields := strings.SplitN(value, ",", len(format))
	if len(fields) != len(format) {
		return ev, fmt.Errorf("expected %d fields, got %d", len(format), len(fields))
	}

	for i, name := range format {
		raw := fields[i]
		if name != "text" {
			raw = strings.TrimSpace(raw)
		}

		var err error
		switch name {
		case "layer":
			ev.Layer, err = atoiOrZero(raw)
		case "start":
			ev.Start, err = parseASSTimestamp(raw)
		case "end":
			ev.End, err = parseASSTimestamp(raw)
		case "style":
			ev.Style = raw
		case "name", "actor":
			ev.Name = raw
		case "marginl":
			ev.MarginL, err = atoiOrZero(raw)
		case "marginr":
			ev.MarginR, err = atoiOrZero(raw)
		case "marginv":
			ev.MarginV, err = atoiOrZero(raw)
		case "effect":
			ev.Effect = raw
		case "text":
			ev.Text = raw
		}
		if err != nil {
			return ev, fmt.Errorf("field %s: %w", name, err)
		}
	}
	return ev, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseASSTimestamp parses H:MM:SS[.fff]. Fraction digits beyond
// milliseconds are truncated.
func parseASSTimestamp(s string) (models.Timecode, error) {
	clock, frac, _ := strings.Cut(s, ".")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var vals [3]int
	for i, p := range parts {
		n, ok := parseDigits(p)
		if !ok {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		vals[i] = n
	}
	if vals[1] >= 60 || vals[2] >= 60 {
		return 0, fmt.Errorf("invalid timestamp %q: minute or second out of range", s)
	}

	ms := 0
	if frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		n, ok := parseDigits(frac)
		if !ok {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		ms = n
		for i := len(frac); i < 3; i++ {
			ms *= 10
		}
	}

	// time.Duration is int64 nanoseconds
	const maxHours = (1<<63 - 1) / int64(time.Hour)
	if int64(vals[0]) >= maxHours {
		return 0, fmt.Errorf("invalid timestamp %q: hour out of range", s)
	}

	d := time.Duration(vals[0])*time.Hour +
		time.Duration(vals[1])*time.Minute +
		time.Duration(vals[2])*time.Second +
		time.Duration(ms)*time.Millisecond
	return models.Timecode(d), nil
}

// parseDigits accepts only ASCII digits, so signs, exponents and NaN are rejected.
func parseDigits(s string) (int, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
