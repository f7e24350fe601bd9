// Package conversation provides the ordered, append-only message log backing
// one agent. The log plus an immutable system prompt is the only state the
// planner ever inspects, which keeps the orchestration loop a pure function
// of conversation shape.
package conversation
