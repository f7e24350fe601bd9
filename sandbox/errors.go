package sandbox

import "errors"

var (
	// ErrSandboxClosed is returned when an operation is attempted on a closed sandbox
	ErrSandboxClosed = errors.New("sandbox is closed")

	// ErrExecutionTimeout is returned when execution exceeds the configured timeout
	ErrExecutionTimeout = errors.New("execution timed out")

	// ErrPathEscapesWorkDir is returned when a file path resolves outside the working directory
	ErrPathEscapesWorkDir = errors.New("path escapes sandbox working directory")
)
