package tool

import "context"

// Param declares one argument of a function tool.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     any
}

// ObjectSchema builds a JSON Schema object from parameter declarations.
// Undeclared properties are rejected so typos in model-generated arguments
// fail validation instead of vanishing.
func ObjectSchema(params ...Param) map[string]any {
	properties := map[string]any{}
	required := []string{}
	for _, p := range params {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Handler is the function a FunctionTool invokes.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// FunctionTool wraps a plain Go function as a Tool.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	handler     Handler
}

// NewFunctionTool creates a tool from a handler and its parameter schema.
func NewFunctionTool(name, description string, parameters map[string]any, handler Handler) *FunctionTool {
	if parameters == nil {
		parameters = ObjectSchema()
	}
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		handler:     handler,
	}
}

// Name implements Tool.
func (t *FunctionTool) Name() string { return t.name }

// Description implements Tool.
func (t *FunctionTool) Description() string { return t.description }

// Parameters implements Tool.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Execute implements Tool.
func (t *FunctionTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	return t.handler(ctx, args)
}
