package internal

import (
	"fmt"
	"path"
	"runtime"
)

// StackTrace is a stack trace.
type StackTrace []uintptr

// GetStackTrace returns a new StackTrace for the calling goroutine, skipping
// skipFrames frames above the caller.
func GetStackTrace(skipFrames int) StackTrace {
	skip := 2 // skips runtime.Callers and this function
	skip += skipFrames

	callers := make([]uintptr, maxStackTraceFrames)
	written := runtime.Callers(skip, callers)
	return StackTrace(callers[0:written])
}

func pcToFunc(pc uintptr) (*runtime.Func, uintptr) {
	// The runtime package documentation says to look up the file and line
	// of the call itself, use pc[i]-1.
	place := pc - 1
	return runtime.FuncForPC(place), place
}

// Format renders the trace as file:line:in `function' lines.
func (st StackTrace) Format() []string {
	lines := make([]string, 0, len(st))
	for _, pc := range st {
		f, place := pcToFunc(pc)
		str := "unknown"
		if nil != f {
			name := path.Base(f.Name())
			file, line := f.FileLine(place)
			str = fmt.Sprintf("%s:%d:in `%s'", file, line, name)
		}
		lines = append(lines, str)
	}
	return lines
}
