// Package logging wires the debug logger. Stdout belongs to the UI, so
// logs only ever go to a file, and only when one is configured.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Open returns a file-backed logger, or a no-op logger when path is empty.
// The returned closer is nil in the no-op case.
func Open(path string) (zerolog.Logger, func() error, error) {
	if path == "" {
		return zerolog.Nop(), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return log, f.Close, nil
}
