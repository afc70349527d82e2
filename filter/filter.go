// Package filter compiles boolean expressions over zone data, used by the
// CLI to narrow zone listings (e.g. `Kind == "Master" && Serial > 0`).
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/pdns-tools/pdnsctl/pdns"
)

// CompiledFilter is a pre-compiled zone filter ready for evaluation. It is
// safe for concurrent use.
type CompiledFilter struct {
	expression string
	program    *vm.Program
}

// Compile parses and compiles a filter expression. The expression must
// evaluate to a boolean.
func Compile(expression string) (*CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // zone fields are injected at runtime
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &CompiledFilter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the original filter expression.
func (f *CompiledFilter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a zone. Evaluation errors count as a
// non-match.
func (f *CompiledFilter) Match(zone pdns.ZoneInfo) bool {
	result, err := expr.Run(f.program, runtimeEnvironment(zone))
	if err != nil {
		return false
	}
	// AsBool() during compilation guarantees a bool result
	return result.(bool)
}

// Apply returns the zones matching the filter, preserving order.
func (f *CompiledFilter) Apply(zones []pdns.ZoneInfo) []pdns.ZoneInfo {
	var matches []pdns.ZoneInfo
	for _, zone := range zones {
		if f.Match(zone) {
			matches = append(matches, zone)
		}
	}
	return matches
}

// helperFunctions returns the static helpers available in expressions.
func helperFunctions() map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	return env
}

func addHelperFunctions(env map[string]any) {
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runtimeEnvironment builds the evaluation environment for one zone.
func runtimeEnvironment(zone pdns.ZoneInfo) map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)

	env["ID"] = zone.ID
	env["Name"] = zone.Name
	env["Kind"] = zone.Kind
	env["Serial"] = int(zone.Serial)
	env["NotifiedSerial"] = int(zone.NotifiedSerial)
	env["Account"] = zone.Account
	env["DNSSEC"] = zone.DNSSEC
	env["Masters"] = zone.Masters
	env["Nameservers"] = zone.Nameservers
	env["RecordCount"] = len(zone.RRsets)

	return env
}
