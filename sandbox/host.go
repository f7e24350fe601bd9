package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HostOptions configure a HostSandbox.
type HostOptions struct {
	// WorkDir is the directory code runs in and file operations are confined
	// to. When empty a temporary directory is created and removed on Close.
	WorkDir string

	// Interpreter is the command used to run code snippets. The snippet is
	// appended as the final argument.
	Interpreter []string

	// Timeout bounds each Execute and InstallPackage call.
	Timeout time.Duration

	// Logger receives execution logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// HostSandbox runs code in subprocesses on the host, confined to a working
// directory. Isolation is by convention only (working directory plus a
// minimal environment); use DockerSandbox when real isolation matters.
type HostSandbox struct {
	mu      sync.Mutex
	opts    HostOptions
	ownsDir bool
	closed  bool
}

// NewHostSandbox creates a host sandbox.
func NewHostSandbox(optFns ...func(o *HostOptions)) (*HostSandbox, error) {
	opts := HostOptions{
		Interpreter: []string{"python3", "-u", "-c"},
		Timeout:     30 * time.Second,
		Logger:      zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ownsDir := false
	if opts.WorkDir == "" {
		dir, err := os.MkdirTemp("", "sandbox-*")
		if err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
		opts.WorkDir = dir
		ownsDir = true
	} else {
		if err := os.MkdirAll(opts.WorkDir, 0o755); err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
	}

	abs, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir: %w", err)
	}
	opts.WorkDir = abs

	return &HostSandbox{opts: opts, ownsDir: ownsDir}, nil
}

// WorkDir returns the sandbox working directory.
func (h *HostSandbox) WorkDir() string { return h.opts.WorkDir }

// Execute implements Sandbox.
func (h *HostSandbox) Execute(ctx context.Context, code string) (Result, error) {
	args := append([]string{}, h.opts.Interpreter[1:]...)
	args = append(args, code)
	return h.run(ctx, h.opts.Interpreter[0], args...)
}

// InstallPackage implements Sandbox. Packages install via the interpreter's
// pip module so they land in the same environment Execute uses.
func (h *HostSandbox) InstallPackage(ctx context.Context, name string) (Result, error) {
	return h.run(ctx, h.opts.Interpreter[0], "-m", "pip", "install", name)
}

func (h *HostSandbox) run(ctx context.Context, command string, args ...string) (Result, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return Result{}, ErrSandboxClosed
	}
	h.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, command, args...)
	cmd.Dir = h.opts.WorkDir
	cmd.Env = []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"HOME=" + h.opts.WorkDir,
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		return Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
		}, ErrExecutionTimeout
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{}, fmt.Errorf("run %s: %w", command, err)
		}
	}

	h.opts.Logger.Debug().
		Str("command", command).
		Int("exit_code", exitCode).
		Dur("duration", duration).
		Msg("Command executed in host sandbox")

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Success:  exitCode == 0,
		ExitCode: exitCode,
	}, nil
}

// ReadFile implements Sandbox.
func (h *HostSandbox) ReadFile(_ context.Context, path string) (string, error) {
	full, err := h.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile implements Sandbox.
func (h *HostSandbox) WriteFile(_ context.Context, path, content string) error {
	full, err := h.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create parent dirs: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// resolve maps a sandbox-relative path to an absolute host path, rejecting
// anything that escapes the working directory.
func (h *HostSandbox) resolve(path string) (string, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return "", ErrSandboxClosed
	}
	h.mu.Unlock()

	full := filepath.Clean(filepath.Join(h.opts.WorkDir, path))
	if full != h.opts.WorkDir && !strings.HasPrefix(full, h.opts.WorkDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapesWorkDir, path)
	}
	return full, nil
}

// Close implements Sandbox. The working directory is removed only if the
// sandbox created it.
func (h *HostSandbox) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.ownsDir {
		return os.RemoveAll(h.opts.WorkDir)
	}
	return nil
}
