package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/pkg/models"
)

var (
	// ErrMalformedReport is returned when the input has no recognisable structure.
	ErrMalformedReport = errors.New("malformed report")
	// ErrInvalidTimecode is returned when a data line carries an out-of-range timecode.
	ErrInvalidTimecode = errors.New("invalid timecode")
)

// InvalidTimecodeError describes the data line whose timecode could not be decoded.
type InvalidTimecodeError struct {
	Line   int
	Raw    string
	Reason string
}

func (e *InvalidTimecodeError) Error() string {
	return fmt.Sprintf("invalid timecode on line %d (%s): %q", e.Line, e.Reason, e.Raw)
}

// Is makes errors.Is(err, ErrInvalidTimecode) match.
func (e *InvalidTimecodeError) Is(target error) bool {
	return target == ErrInvalidTimecode
}

// Parse turns raw report text into issues in encounter order. Lines that are
// not data lines are skipped. A single bad timecode fails the whole parse.
// The input is malformed only when no line is a data line and it does not
// read as text at all.
func Parse(raw string) ([]models.Issue, error) {
	var issues []models.Issue
	skipped := 0
	for i, line := range splitLines(raw) {
		kind, data := classifyLine(line)
		if kind != lineData {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}

		tc, reason := decodeTimecode(data.timecode)
		if reason != "" {
			return nil, &InvalidTimecodeError{
				Line:   i + 1,
				Raw:    strings.TrimSuffix(line, "\r"),
				Reason: reason,
			}
		}

		issues = append(issues, models.Issue{
			Timecode: tc,
			Category: data.category,
			Text:     data.text,
			Line:     i + 1,
		})
	}

	if len(issues) == 0 && !hasTextStructure(raw) {
		return nil, fmt.Errorf("%w: input has no data lines and contains binary content", ErrMalformedReport)
	}

	logging.Debug("parsed report",
		"issues", len(issues),
		"skipped_lines", skipped)

	return issues, nil
}

// decodeTimecode converts H+:MM:SS into a Timecode. It returns a non-empty
// reason when the token is not a valid timecode.
func decodeTimecode(token string) (models.Timecode, string) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, "expected HH:MM:SS"
	}

	var fields [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return 0, fmt.Sprintf("field %q is not a number", p)
		}
		fields[i] = n
	}

	hour, minute, second := fields[0], fields[1], fields[2]
	if minute >= 60 {
		return 0, "minute out of range"
	}
	if second >= 60 {
		return 0, "second out of range"
	}
	// time.Duration is int64 nanoseconds
	const maxHours = (1<<63 - 1) / 1_000_000_000 / 3600
	if hour >= maxHours {
		return 0, "hour out of range"
	}

	return models.NewTimecode(hour*3600 + minute*60 + second), ""
}
