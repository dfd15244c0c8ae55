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

// ParseSRT reads SubRip cues. Multi-line cue text is joined with the ASS
// hard line break so references render on a single line.
func ParseSRT(r io.Reader) (*Track, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	track := &Track{}
	var (
		cur     *models.DialogueEvent
		text    []string
		lineNo  int
		pending bool
	)

	flush := func() {
		if cur != nil {
			cur.Text = strings.Join(text, `\N`)
			cur.Style = "Default"
			track.Events = append(track.Events, *cur)
		}
		cur, text, pending = nil, nil, false
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if cur == nil {
			if strings.Contains(line, "-->") {
				start, end, err := parseSRTTiming(line)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				cur = &models.DialogueEvent{Start: start, End: end}
				continue
			}
			if pending {
				return nil, fmt.Errorf("line %d: expected timing line after cue number", lineNo)
			}
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err != nil {
				return nil, fmt.Errorf("line %d: expected cue number, got %q", lineNo, line)
			}
			pending = true
			continue
		}
		text = append(text, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	flush()

	return track, nil
}

func parseSRTTiming(line string) (models.Timecode, models.Timecode, error) {
	left, right, _ := strings.Cut(line, "-->")
	start, err := parseSRTTimestamp(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, err
	}
	// position hints such as "X1:100" may follow the end time
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp in %q", line)
	}
	end, err := parseSRTTimestamp(fields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseSRTTimestamp parses HH:MM:SS,mmm (a dot separator is also accepted).
func parseSRTTimestamp(s string) (models.Timecode, error) {
	clock, frac, _ := strings.Cut(strings.Replace(s, ".", ",", 1), ",")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}

	var vals [4]int
	for i, p := range append(parts, frac) {
		if p == "" && i == 3 {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		vals[i] = n
	}

	ms := vals[3]
	switch len(frac) {
	case 1:
		ms *= 100
	case 2:
		ms *= 10
	}

	d := time.Duration(vals[0])*time.Hour +
		time.Duration(vals[1])*time.Minute +
		time.Duration(vals[2])*time.Second +
		time.Duration(ms)*time.Millisecond
	return models.Timecode(d), nil
}
