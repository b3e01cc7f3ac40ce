package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Unknown levels fall back to info.
func Setup(level string, pretty bool) {
	Configure(os.Stdout, level, pretty)
}

// Configure points the global logger at w.
func Configure(w io.Writer, level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
