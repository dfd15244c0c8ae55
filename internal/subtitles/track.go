package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/pkg/models"
)

// Track is a parsed dialogue track in file order.
type Track struct {
	// Path is the file the track was loaded from, if any
	Path string

	// Events are the dialogue and comment events in file order
	Events []models.DialogueEvent
}

// Load reads a subtitle file, choosing the parser from its extension.
func Load(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dialogue file: %w", err)
	}
	defer f.Close()

	var track *Track
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ass", ".ssa":
		track, err = ParseASS(f)
	case ".srt":
		track, err = ParseSRT(f)
	default:
		return nil, fmt.Errorf("unsupported dialogue file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse dialogue file %s: %w", path, err)
	}

	track.Path = path
	logging.Debug("loaded dialogue track",
		"path", path,
		"events", len(track.Events))
	return track, nil
}
