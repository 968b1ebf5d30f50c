package logger

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

type contextKey string

// DatasetKey marks the dataset name in a context so that log lines from
// concurrent jobs can be told apart.
const DatasetKey = contextKey(`dataset`)

var (
	mutex  sync.Mutex
	output *os.File = os.Stderr
)

// SetOutput directs log output to stdout, stderr, or a file path.
// A file path is opened for append, created if needed.
func SetOutput(where string) {
	mutex.Lock()
	defer mutex.Unlock()
	switch where {
	case `stdout`:
		output = os.Stdout
	case `stderr`:
		output = os.Stderr
	default:
		file, err := os.OpenFile(where, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			output = os.Stderr
			writeLine(`WARN`, nil, `Unable to open log file`, where, err)
			return
		}
		output = file
	}
}

func Info(ctx context.Context, args ...any) {
	writeLine(`INFO`, ctx, args...)
}

func Warn(ctx context.Context, args ...any) {
	writeLine(`WARN`, ctx, args...)
}

// Error records the error and returns a Status for the caller to pass up.
func Error(ctx context.Context, code int, err error, args ...any) *Status {
	var s Status
	s.Code = code
	s.Err = err
	s.Message = format(args...)
	s.Trace = stackTrace()
	if request, ok := ctx.Value(DatasetKey).(string); ok {
		s.Request = request
	}
	writeLine(`ERROR`, ctx, append(args, err)...)
	return &s
}

// ErrorNoErr is Error for failures that have no underlying error value.
func ErrorNoErr(ctx context.Context, code int, args ...any) *Status {
	var s Status
	s.Code = code
	s.Message = format(args...)
	s.Trace = stackTrace()
	if request, ok := ctx.Value(DatasetKey).(string); ok {
		s.Request = request
	}
	writeLine(`ERROR`, ctx, args...)
	return &s
}

func writeLine(level string, ctx context.Context, args ...any) {
	var parts []string
	parts = append(parts, time.Now().Format(`2006-01-02 15:04:05`))
	parts = append(parts, level)
	if ctx != nil {
		if dataset, ok := ctx.Value(DatasetKey).(string); ok {
			parts = append(parts, dataset)
		}
	}
	parts = append(parts, format(args...))
	mutex.Lock()
	defer mutex.Unlock()
	_, _ = output.WriteString(strings.Join(parts, ` `) + "\n")
}

func format(args ...any) string {
	var parts []string
	for _, arg := range args {
		if arg == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf(`%v`, arg))
	}
	return strings.Join(parts, ` `)
}

func stackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
