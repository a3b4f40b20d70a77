package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/decls"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// Function is a CEL function offered for completion.
type Function struct {
	Name string `json:"name"`
	// Usage lists the overloads, e.g. "string.contains(string) -> bool".
	Usage []string `json:"usage"`
	Macro bool     `json:"macro"`
}

// Signature returns the first usage, or name() for macros.
func (f Function) Signature() string {
	if len(f.Usage) > 0 {
		return f.Usage[0]
	}
	return f.Name + "()"
}

// FunctionIndex lists the functions of a CEL environment.
type FunctionIndex struct {
	funcs []Function
}

// NewCELEnv creates the CEL environment whose functions are offered: the
// standard library plus the strings, encoders, lists and math extensions.
func NewCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// NewFunctionIndex discovers the functions and macros of env. A nil env uses
// NewCELEnv.
func NewFunctionIndex(env *cel.Env) (*FunctionIndex, error) {
	if env == nil {
		var err error
		env, err = NewCELEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to create CEL environment: %w", err)
		}
	}

	byName := make(map[string]*Function)
	for _, fn := range env.Functions() {
		if isOperator(fn.Name()) {
			continue
		}
		f := &Function{Name: fn.Name()}
		seen := make(map[string]bool)
		for _, o := range fn.OverloadDecls() {
			usage := usageFromOverload(fn.Name(), o)
			if !seen[usage] {
				seen[usage] = true
				f.Usage = append(f.Usage, usage)
			}
		}
		sort.Strings(f.Usage)
		byName[f.Name] = f
	}
	for _, m := range env.Macros() {
		name := m.Function()
		if isOperator(name) {
			continue
		}
		if _, ok := byName[name]; !ok {
			byName[name] = &Function{Name: name, Macro: true}
		}
	}

	idx := &FunctionIndex{funcs: make([]Function, 0, len(byName))}
	for _, f := range byName {
		idx.funcs = append(idx.funcs, *f)
	}
	sort.Slice(idx.funcs, func(i, j int) bool { return idx.funcs[i].Name < idx.funcs[j].Name })
	return idx, nil
}

// Len returns the number of functions.
func (f *FunctionIndex) Len() int { return len(f.funcs) }

// Search returns the functions whose name starts with term, by name.
func (f *FunctionIndex) Search(_ context.Context, term string) ([]any, error) {
	var out []any
	for _, fn := range f.funcs {
		if strings.HasPrefix(fn.Name, term) {
			out = append(out, fn)
		}
	}
	return out, nil
}

// isOperator filters out operator-style declarations such as _+_ or @in.
func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	switch name {
	case "!_", "-_", "_[_]", "_?_:_":
		return true
	}
	return false
}

func typeLabel(t *types.Type) string {
	if t == nil {
		return "any"
	}
	if name := t.DeclaredTypeName(); name != "" {
		return name
	}
	if name := t.TypeName(); name != "" {
		return name
	}
	return "any"
}

func joinTypes(params []*types.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = typeLabel(p)
	}
	return strings.Join(parts, ", ")
}

// usageFromOverload renders an overload as recv.name(args) -> result for
// member functions and name(args) -> result otherwise.
func usageFromOverload(name string, o *decls.OverloadDecl) string {
	params := o.ArgTypes()
	call := name + "(" + joinTypes(params) + ")"
	if o.IsMemberFunction() && len(params) > 0 {
		call = typeLabel(params[0]) + "." + name + "(" + joinTypes(params[1:]) + ")"
	}
	if o.ResultType() == nil {
		return call
	}
	return call + " -> " + typeLabel(o.ResultType())
}
