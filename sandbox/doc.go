// Package sandbox provides isolated execution environments for
// model-authored code. HostSandbox runs code in a subprocess confined to a
// working directory; DockerSandbox runs it inside a long-lived container.
package sandbox
