// Package agent implements the plan-execute loop that binds a conversation,
// a planner, a tool registry, and a model client into a runnable agent.
//
// A run is a sequence of decide/act cycles: the planner inspects the last
// conversation entry and the agent either calls the model, executes the
// requested tools in order, or returns the final text. Only provider errors
// and the delegation-depth guard abort a run; everything a tool can do
// wrong is folded into the conversation as data.
package agent
