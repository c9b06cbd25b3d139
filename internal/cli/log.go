package cli

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger returns a console logger writing to w.
//
// Only warnings and errors are shown, unless verbose is set, in which case
// debug output, including key material, is shown as well.
func Logger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.NoColor = true
	})).Level(level).With().Timestamp().Logger()
}
