package logger

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

type contextKey string

// RequestKey holds the yaml request content, so that it can be reported with errors.
const RequestKey contextKey = `request`

var output = os.Stderr

// SetOutput directs log output to stdout, stderr, or a file path.
func SetOutput(where string) {
	switch where {
	case `stdout`:
		output = os.Stdout
	case `stderr`:
		output = os.Stderr
	default:
		file, err := os.OpenFile(where, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, `Unable to open log file`, where, err)
			os.Exit(1)
		}
		output = file
	}
}

func Debug(ctx context.Context, messages ...any) {
	writeLog(`DEBUG`, messages...)
}

func Info(ctx context.Context, messages ...any) {
	writeLog(`INFO`, messages...)
}

func Warn(ctx context.Context, messages ...any) {
	writeLog(`WARN`, messages...)
}

// Error logs the error and returns a Status that wraps it.
func Error(ctx context.Context, code int, err error, messages ...any) *Status {
	var status Status
	status.Status = code
	status.Err = err
	status.Message = joinMessages(messages...)
	status.Trace = stackTrace()
	status.Request = requestFromContext(ctx)
	if err != nil {
		writeLog(`ERROR`, status.Message, err)
	} else {
		writeLog(`ERROR`, status.Message)
	}
	return &status
}

// ErrorNoErr reports an error condition that has no underlying error value.
func ErrorNoErr(ctx context.Context, code int, messages ...any) *Status {
	return Error(ctx, code, nil, messages...)
}

// ExecError is given stderr lines captured from a child process.
// Lines that look like a crash are returned as a Status, others are
// logged as warnings, because python programs write progress to stderr.
func ExecError(ctx context.Context, code int, line string) *Status {
	for _, marker := range execErrorMarkers {
		if strings.Contains(line, marker) {
			return ErrorNoErr(ctx, code, line)
		}
	}
	Warn(ctx, line)
	return nil
}

var execErrorMarkers = []string{`Traceback`, `Error`, `Exception`, `FAILED`, `CUDA out of memory`}

func Fatal(messages ...any) {
	writeLog(`FATAL`, messages...)
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	writeLog(`FATAL`, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func writeLog(level string, messages ...any) {
	timestamp := time.Now().Format(`2006-01-02 15:04:05`)
	_, _ = fmt.Fprintln(output, timestamp, level, joinMessages(messages...))
}

func joinMessages(messages ...any) string {
	var parts []string
	for _, message := range messages {
		parts = append(parts, fmt.Sprintf(`%v`, message))
	}
	return strings.Join(parts, ` `)
}

func requestFromContext(ctx context.Context) string {
	if ctx == nil {
		return ``
	}
	value := ctx.Value(RequestKey)
	if value == nil {
		return ``
	}
	request, ok := value.(string)
	if !ok {
		return ``
	}
	return request
}

func stackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
