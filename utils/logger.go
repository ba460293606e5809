package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the process logger. Output goes to stdout and, when
// logFile is non-empty, is mirrored into that file. The returned closer
// is always safe to Close.
func NewLogger(logFile string, verbose bool) (*log.Logger, io.Closer, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logger: open %q: %w", logFile, err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return logger, closer, nil
}
