// Package planner implements the four-state decision machine at the heart of
// the agentic loop. States are defined by the shape of the last conversation
// entry, not by an enum the planner carries; the planner is stateless and
// safe to share between agents.
package planner
