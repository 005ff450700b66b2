package executor

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorMarker prefixes the JSON error payload alr prints on fatal failures,
// e.g. `error: {"code":5,"message":"network unreachable"}`.
const ErrorMarker = "error: "

// ExecutionError reports that a child process could not be spawned at all
// (binary missing, working directory missing, permission denied).
type ExecutionError struct {
	Command string
	Dir     string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute %q in %s: %v", e.Command, e.Dir, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// StructuredToolError is a machine-readable failure reported by an external tool.
type StructuredToolError struct {
	Command string
	Code    int64
	Message string
}

func (e *StructuredToolError) Error() string {
	return fmt.Sprintf("%s reported error %d: %s", e.Command, e.Code, e.Message)
}

// ParseStructuredError recognises a single output line carrying a structured error.
// It returns nil when the line is ordinary output.
func ParseStructuredError(line string) *StructuredToolError {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, ErrorMarker) {
		return nil
	}
	body := strings.TrimSpace(strings.TrimPrefix(line, ErrorMarker))
	if !strings.HasPrefix(body, "{") || !gjson.Valid(body) {
		return nil
	}
	parsed := gjson.Parse(body)
	return &StructuredToolError{
		Code:    parsed.Get("code").Int(),
		Message: parsed.Get("message").String(),
	}
}
