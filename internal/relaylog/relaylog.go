// Package relaylog bootstraps the process-wide zerolog logger, following
// the teacher's main.go convention of configuring log.Logger once at
// startup rather than threading a logger instance through every
// component.
package relaylog

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. debug enables Debug-level
// output (used for PutEvent duplicate traces and similar verbose paths);
// otherwise the level is Info.
func Init(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
