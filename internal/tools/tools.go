// Package tools exposes the planner's capabilities as schema-described
// operations an LLM orchestrator can invoke mid-conversation.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Descriptor is the machine-readable capability record for one tool.
// It is plain data so any orchestration layer can consume it.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Tool couples a descriptor with its handler. Handlers are stateless:
// each invocation is a function of its arguments alone (plus the
// network call in the search tool), with no shared mutable state
// within or across requests.
type Tool struct {
	Descriptor
	Run func(ctx context.Context, args json.RawMessage) (any, error)
}

// Registry holds tools in registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, ok := r.tools[t.Name]; !ok {
			r.order = append(r.order, t.Name)
		}
		r.tools[t.Name] = t
	}
	return r
}

// List returns the descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Descriptor)
	}
	return out
}

// Call dispatches one tool invocation by name.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return t.Run(ctx, args)
}
