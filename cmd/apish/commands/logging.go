package commands

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/erraggy/apish/logger"
)

// NewLogger returns a zerolog console logger writing to w. Colour is used
// only when w is a terminal.
func NewLogger(w io.Writer, verbose bool) logger.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.TimeOnly}
	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger.NewZerologAdapter(zl)
}
