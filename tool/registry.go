package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// Logger receives per-call execution logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Registry holds an agent's tools and dispatches calls to them. Each call is
// schema-validated, default-filled, and panic-guarded; every outcome is a
// Response envelope.
type Registry struct {
	tools   map[string]Tool
	schemas map[string]*gojsonschema.Schema
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: zerolog.Nop()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		tools:   map[string]Tool{},
		schemas: map[string]*gojsonschema.Schema{},
		logger:  opts.Logger,
	}
}

// Register adds a tool. The schema is compiled once here so Execute only
// pays for validation. Registering a duplicate name fails.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.Parameters()))
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", name, err)
	}

	r.tools[name] = t
	r.schemas[name] = schema
	return nil
}

// MustRegister is Register that panics on error, for static wiring at
// construction time.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns the registered tools in name order.
func (r *Registry) Tools() []Tool {
	names := r.Names()
	tools := make([]Tool, len(names))
	for i, name := range names {
		tools[i] = r.tools[name]
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Execute runs one tool call end to end: decode, fill defaults, validate,
// dispatch. It never returns an error; every failure mode is an envelope so
// the model can observe it and recover.
func (r *Registry) Execute(ctx context.Context, name string, raw json.RawMessage) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("tool", name).Any("panic", rec).Msg("Tool panicked")
			resp = Fail("tool %s panicked: %v", name, rec)
		}
	}()

	t, ok := r.tools[name]
	if !ok {
		return Fail("unknown tool: %s", name)
	}

	args := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return Fail("invalid arguments for %s: %v", name, err)
		}
	}

	applyDefaults(t.Parameters(), args)

	result, err := r.schemas[name].Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return Fail("validate arguments for %s: %v", name, err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, verr := range result.Errors() {
			msgs[i] = verr.String()
		}
		return Fail("invalid arguments for %s: %v", name, msgs)
	}

	data, err := t.Execute(ctx, args)
	if err != nil {
		r.logger.Warn().Str("tool", name).Err(err).Msg("Tool execution failed")
		return Fail("%v", err)
	}

	r.logger.Debug().Str("tool", name).Msg("Tool executed")
	return Ok(data)
}

// applyDefaults fills absent arguments from schema property defaults before
// validation, so a declared default can satisfy a required property.
func applyDefaults(schema map[string]any, args map[string]any) {
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return
	}
	for name, prop := range properties {
		if _, present := args[name]; present {
			continue
		}
		propMap, ok := prop.(map[string]any)
		if !ok {
			continue
		}
		if def, ok := propMap["default"]; ok {
			args[name] = def
		}
	}
}
