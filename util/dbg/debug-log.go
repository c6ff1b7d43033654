//go:build debug
// +build debug

package dbg

import (
	"fmt"
	"log"
	"os"
)

type debugLoggerImpl struct {
	logger *log.Logger
}

// init function for the debug build.
// This will be called when the 'debug' tag is active.
func init() {
	// Always on with the tag; file/line numbers point at the caller of dbg.Printf.
	debugLog = &debugLoggerImpl{
		logger: log.New(os.Stderr, "", log.Lshortfile),
	}
	enabled = true
}

// Printf implements the Printf method of the DebugLogger interface.
func (d *debugLoggerImpl) Printf(format string, a ...interface{}) {
	d.logger.Output(3, fmt.Sprintf(format, a...)) // calldepth 3 to get caller's file/line
}

// Println implements the Println method of the DebugLogger interface.
func (d *debugLoggerImpl) Println(a ...interface{}) {
	d.logger.Output(3, fmt.Sprintln(a...)) // calldepth 3 to get caller's file/line
}
