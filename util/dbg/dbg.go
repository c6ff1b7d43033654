package dbg

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/xyproto/env/v2"
)

// DebugLogger is an interface that defines our debug logging functions.
// This allows us to have different implementations based on build tags.
type DebugLogger interface {
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

// EnvVar turns debug logging on at run time in builds without the debug tag.
const EnvVar = "ARMOPS_DEBUG"

// Global variable for our debug logger instance.
// This will be initialized by either debug-log.go or nodebug-log.go depending on build tags.
var debugLog DebugLogger

// enabled is false while debugLog discards everything.
var enabled bool

// dumper renders decoded operands field by field. Stringers are bypassed and
// pointer addresses left out so that dumps of equal values compare equal.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func Printf(format string, a ...interface{}) {
	debugLog.Printf(format, a...)
}

func Println(a ...interface{}) {
	debugLog.Println(a...)
}

// Dump logs a deep rendering of each value, including unexported fields.
func Dump(a ...interface{}) {
	if !Enabled() {
		return
	}
	debugLog.Printf("%s", dumper.Sdump(a...))
}

// Sdump returns the rendering Dump would log.
func Sdump(a ...interface{}) string {
	return dumper.Sdump(a...)
}

// SetLogger replaces the debug logger, returning the previous one. A nil
// logger turns debug output off.
func SetLogger(l DebugLogger) DebugLogger {
	prev := debugLog
	if l == nil {
		l = &noOpDebugLoggerImpl{}
	}
	debugLog = l
	_, off := l.(*noOpDebugLoggerImpl)
	enabled = !off
	return prev
}

type noOpDebugLoggerImpl struct{}

// Printf is a no-op when debug logging is disabled.
func (n *noOpDebugLoggerImpl) Printf(format string, a ...interface{}) {
	// Do nothing
}

// Println is a no-op when debug logging is disabled.
func (n *noOpDebugLoggerImpl) Println(a ...interface{}) {
	// Do nothing
}

// Enabled reports whether debug output goes anywhere.
func Enabled() bool {
	return enabled
}

func envEnabled() bool {
	return env.Bool(EnvVar)
}
