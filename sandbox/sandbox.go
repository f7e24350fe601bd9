package sandbox

import "context"

// Result captures one execution inside a sandbox. Success mirrors a zero
// exit code.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Success  bool   `json:"success"`
	ExitCode int    `json:"exit_code"`
}

// Sandbox is an isolated environment for running model-authored code. All
// methods are safe to call from the single goroutine driving an agent run;
// implementations serialize internally where needed.
type Sandbox interface {
	// Execute runs a code snippet and returns its captured output. A non-zero
	// exit code is not an error: it comes back in the Result so the caller can
	// surface it to the model.
	Execute(ctx context.Context, code string) (Result, error)

	// ReadFile returns the contents of a file inside the sandbox working
	// directory.
	ReadFile(ctx context.Context, path string) (string, error)

	// WriteFile writes content to a file inside the sandbox working directory,
	// creating parent directories as needed.
	WriteFile(ctx context.Context, path, content string) error

	// InstallPackage installs a package into the sandbox interpreter
	// environment.
	InstallPackage(ctx context.Context, name string) (Result, error)

	// Close releases the sandbox's resources. Closing twice is a no-op.
	Close() error
}
