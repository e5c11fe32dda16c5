package domain

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Default switches used when a tool does not set its own.
const (
	DefaultPathSwitch   = "-I"
	DefaultOutputSwitch = "-o"
)

// Tool is an external program registered for a toolchain function such as "c" or "link".
type Tool struct {
	Function     string
	Command      string
	Options      []string
	Paths        []string
	PathSwitch   string
	OutputSwitch string
}

// Prefix returns the command, its options and its search path arguments.
func (t Tool) Prefix() []string {
	args := make([]string, 0, 1+len(t.Options)+len(t.Paths))
	args = append(args, t.Command)
	args = append(args, t.Options...)
	sw := t.PathSwitch
	if sw == "" {
		sw = DefaultPathSwitch
	}
	for _, p := range t.Paths {
		args = append(args, sw+p)
	}
	return args
}

// Output returns the output switch, falling back to the default.
func (t Tool) Output() string {
	if t.OutputSwitch == "" {
		return DefaultOutputSwitch
	}
	return t.OutputSwitch
}

// String renders the tool as a single command line prefix.
func (t Tool) String() string {
	return strings.Join(t.Prefix(), " ")
}

// Toolchain maps toolchain functions to tools.
type Toolchain struct {
	tools map[string]Tool
}

// NewToolchain returns a toolchain holding tools.
func NewToolchain(tools ...Tool) *Toolchain {
	tc := &Toolchain{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		tc.tools[t.Function] = t
	}
	return tc
}

// DefaultToolchain returns the tools used when a project configures none.
func DefaultToolchain() *Toolchain {
	return NewToolchain(
		Tool{Function: DefaultCompiler, Command: "cc"},
		Tool{Function: DefaultLinker, Command: "cc"},
		Tool{Function: DefaultGenerator, Command: "swig"},
	)
}

// Lookup returns the tool registered for function.
func (tc *Toolchain) Lookup(function string) (Tool, error) {
	t, ok := tc.tools[function]
	if !ok {
		return Tool{}, tc.notFound(function)
	}
	return t, nil
}

// Add registers a tool for a function that has none yet.
func (tc *Toolchain) Add(t Tool) error {
	if _, ok := tc.tools[t.Function]; ok {
		return zerr.With(ErrToolAlreadyExists, "function", t.Function)
	}
	tc.tools[t.Function] = t
	return nil
}

// Modify replaces the tool registered for t.Function.
func (tc *Toolchain) Modify(t Tool) error {
	if _, ok := tc.tools[t.Function]; !ok {
		return tc.notFound(t.Function)
	}
	tc.tools[t.Function] = t
	return nil
}

// Remove unregisters the tool for function.
func (tc *Toolchain) Remove(function string) error {
	if _, ok := tc.tools[function]; !ok {
		return tc.notFound(function)
	}
	delete(tc.tools, function)
	return nil
}

// Functions returns the registered functions in sorted order.
func (tc *Toolchain) Functions() []string {
	return slices.Sorted(maps.Keys(tc.tools))
}

// Tools returns the registered tools sorted by function.
func (tc *Toolchain) Tools() []Tool {
	out := make([]Tool, 0, len(tc.tools))
	for _, fn := range tc.Functions() {
		out = append(out, tc.tools[fn])
	}
	return out
}

// Len returns the number of registered tools.
func (tc *Toolchain) Len() int {
	return len(tc.tools)
}

func (tc *Toolchain) notFound(function string) error {
	return zerr.With(zerr.With(ErrToolNotFound, "function", function), "known", tc.Functions())
}
