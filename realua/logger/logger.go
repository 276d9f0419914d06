package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var verbosity int

var log = newLogger(os.Stderr)

func newLogger(w io.Writer) zerolog.Logger {
	if w == os.Stderr {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func Logi(v ...any) {
	if verbosity >= 1 {
		log.Info().Msg(fmt.Sprint(v...))
	}
}

func Loge(v ...any) {
	if verbosity >= 1 {
		log.Error().Msg(fmt.Sprint(v...))
	}
}

func Logw(v ...any) {
	if verbosity >= 1 {
		log.Warn().Msg(fmt.Sprint(v...))
	}
}

func Logd(v ...any) {
	if verbosity >= 2 {
		log.Debug().Msg(fmt.Sprint(v...))
	}
}

// SetOutput redirects log lines to w as JSON. Passing os.Stderr restores
// the console format.
func SetOutput(w io.Writer) {
	log = newLogger(w)
}

func Init(level int) {
	verbosity = level
}
