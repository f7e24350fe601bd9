package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CheckDocker verifies that the Docker daemon is available and responsive.
func CheckDocker() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "ps", "-q")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker is not available or not running: %w", err)
	}
	return nil
}

// DockerOptions configure a DockerSandbox.
type DockerOptions struct {
	// Image is the container image. It must have the interpreter installed.
	Image string

	// Interpreter is the command used to run code snippets inside the
	// container. The snippet is appended as the final argument.
	Interpreter []string

	// WorkDir is the working directory inside the container.
	WorkDir string

	// Network enables container networking. Off by default so model code
	// cannot reach the outside world; package installs force a bridge
	// network per call.
	Network bool

	// Timeout bounds each Execute and InstallPackage call.
	Timeout time.Duration

	// Logger receives execution logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DockerSandbox runs code inside a single long-lived container so state
// (files, installed packages) persists across calls within one session. Each
// call is a docker exec against that container.
type DockerSandbox struct {
	mu          sync.Mutex
	opts        DockerOptions
	containerID string
	closed      bool
}

// NewDockerSandbox starts a container and returns a sandbox bound to it.
func NewDockerSandbox(ctx context.Context, optFns ...func(o *DockerOptions)) (*DockerSandbox, error) {
	opts := DockerOptions{
		Image:       "python:3.12-slim",
		Interpreter: []string{"python3", "-u", "-c"},
		WorkDir:     "/workspace",
		Timeout:     30 * time.Second,
		Logger:      zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	network := "none"
	if opts.Network {
		network = "bridge"
	}

	args := []string{
		"run", "-d", "--init",
		"--network", network,
		"-w", opts.WorkDir,
		opts.Image,
		"sleep", "infinity",
	}
	out, err := exec.CommandContext(ctx, "docker", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}
	containerID := strings.TrimSpace(string(out))

	mkdir := exec.CommandContext(ctx, "docker", "exec", containerID, "mkdir", "-p", opts.WorkDir)
	if err := mkdir.Run(); err != nil {
		_ = exec.Command("docker", "rm", "-f", containerID).Run()
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	opts.Logger.Info().
		Str("image", opts.Image).
		Str("container_id", containerID).
		Msg("Docker sandbox started")

	return &DockerSandbox{opts: opts, containerID: containerID}, nil
}

// Execute implements Sandbox.
func (d *DockerSandbox) Execute(ctx context.Context, code string) (Result, error) {
	args := append([]string{}, d.opts.Interpreter...)
	args = append(args, code)
	return d.exec(ctx, false, args...)
}

// InstallPackage implements Sandbox. The exec runs with networking restored
// so pip can reach the package index even when the container network is off.
func (d *DockerSandbox) InstallPackage(ctx context.Context, name string) (Result, error) {
	return d.exec(ctx, true, d.opts.Interpreter[0], "-m", "pip", "install", name)
}

// ReadFile implements Sandbox.
func (d *DockerSandbox) ReadFile(ctx context.Context, path string) (string, error) {
	res, err := d.exec(ctx, false, "cat", path)
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "", fmt.Errorf("read %s: %s", path, strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

// WriteFile implements Sandbox. Content arrives over the exec's stdin, so it
// needs no shell quoting.
func (d *DockerSandbox) WriteFile(ctx context.Context, path, content string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSandboxClosed
	}
	containerID := d.containerID
	d.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	script := fmt.Sprintf("mkdir -p \"$(dirname %q)\" && cat > %q", path, path)
	cmd := exec.CommandContext(execCtx, "docker", "exec", "-i", containerID, "sh", "-c", script)
	cmd.Stdin = strings.NewReader(content)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("write %s: %s: %w", path, strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

func (d *DockerSandbox) exec(ctx context.Context, needNetwork bool, args ...string) (Result, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return Result{}, ErrSandboxClosed
	}
	containerID := d.containerID
	d.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	if needNetwork && !d.opts.Network {
		reconnect := exec.CommandContext(execCtx, "docker", "network", "connect", "bridge", containerID)
		if err := reconnect.Run(); err == nil {
			defer func() {
				_ = exec.Command("docker", "network", "disconnect", "bridge", containerID).Run()
			}()
		}
	}

	cmdArgs := append([]string{"exec", containerID}, args...)
	cmd := exec.CommandContext(execCtx, "docker", cmdArgs...)

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
			return Result{}, fmt.Errorf("docker exec: %w", err)
		}
	}

	d.opts.Logger.Debug().
		Str("container_id", containerID).
		Int("exit_code", exitCode).
		Dur("duration", duration).
		Msg("Command executed in docker sandbox")

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Success:  exitCode == 0,
		ExitCode: exitCode,
	}, nil
}

// Close implements Sandbox. The container is removed; closing twice is a
// no-op.
func (d *DockerSandbox) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if err := exec.Command("docker", "rm", "-f", d.containerID).Run(); err != nil {
		return fmt.Errorf("remove container: %w", err)
	}
	return nil
}
