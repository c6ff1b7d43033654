//go:build !debug
// +build !debug

package dbg

import (
	"fmt"
	"log"
	"os"
)

// init function for the non-debug build.
// This will be called when the 'debug' tag is NOT active.
func init() {
	if envEnabled() {
		debugLog = &stderrLoggerImpl{logger: log.New(os.Stderr, "dbg: ", 0)}
		enabled = true
		return
	}
	debugLog = &noOpDebugLoggerImpl{}
}

// stderrLoggerImpl is used when ARMOPS_DEBUG is set without the debug tag.
type stderrLoggerImpl struct {
	logger *log.Logger
}

func (d *stderrLoggerImpl) Printf(format string, a ...interface{}) {
	d.logger.Output(3, fmt.Sprintf(format, a...))
}

func (d *stderrLoggerImpl) Println(a ...interface{}) {
	d.logger.Output(3, fmt.Sprintln(a...))
}
