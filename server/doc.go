// Package server exposes an agent factory over HTTP with session isolation.
// Each POST /sessions builds a fresh agent; runs within one session are
// serialized while distinct sessions proceed concurrently. The surface is
// the contract tool.RemoteAgentTool consumes for remote delegation.
package server
