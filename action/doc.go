// Package action defines the atomic units of the plan-execute loop: the
// persisted conversation history entries (user / assistant / tool-result
// messages with their tool calls) and the transient control decisions the
// planner derives from them. Both families are closed sets implemented with
// unexported marker methods so a type switch over them is exhaustive.
//
// The package also owns the role-tagged wire codec used to persist a history
// to disk and load it back verbatim.
package action
