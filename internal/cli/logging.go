package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// defaultLogLevel keeps a normal run quiet: only problems reach stderr, the
// report goes to stdout.
const defaultLogLevel = "warn"

// newLogHandler creates the slog handler for a run. verbose overrides level
// with debug.
func newLogHandler(w io.Writer, level string, verbose bool) (slog.Handler, error) {
	if verbose {
		level = "debug"
	}
	if strings.TrimSpace(level) == "" {
		level = defaultLogLevel
	}

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: valid values are debug, info, warn, error", level)
	}

	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "css-ts-setup",
	}), nil
}
