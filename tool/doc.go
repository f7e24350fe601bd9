// Package tool defines the callable-capability contract, the registry that
// validates and dispatches calls, and the built-in tools: plain function
// tools, sub-agent delegation (local and remote), and sandboxed code
// execution.
//
// Every execution path converges on the Response envelope. Unknown tools,
// malformed arguments, schema violations, handler errors, and panics all
// come back as {success: false, error: ...}; the agentic loop never sees a
// tool failure as a Go error.
package tool
