// Package rules applies an ordered list of declarative, idempotent correction
// rules to an OpenAPI document. Each rule targets one operation (or every
// operation), checks a precondition, and applies an action that removes
// exactly the condition the precondition detects — so a second pass over the
// corrected document always reports zero corrections.
package rules

import (
	"fmt"

	openapifix "github.com/rafactx/openapi-fixer-v2"
)

// Precondition kinds.
const (
	CheckHasField      = "has-field"
	CheckHasParamNamed = "has-param-named"
	CheckMissingParam  = "missing-param"
)

// Action kinds.
const (
	ActionDeleteField       = "delete-field"
	ActionRemoveParamsNamed = "remove-params-named"
	ActionAppendParam       = "append-param"
)

// AllPaths targets every path template instead of a single one.
const AllPaths = "*"

// Target addresses operation nodes by path template and HTTP verb. Path may
// be AllPaths to address the verb across every template.
type Target struct {
	Path string
	Verb string
}

func (t Target) String() string {
	return fmt.Sprintf("%s %s", t.Verb, t.Path)
}

// Rule is one declarative correction: if Check holds on the target operation
// the violation is present and Action removes it. Payload is the check's and
// action's operand: a field or parameter name as a scalar, or a full
// parameter object for CheckMissingParam/ActionAppendParam (equality there is
// name AND in).
type Rule struct {
	ID      string
	Target  Target
	Check   string
	Action  string
	Payload *openapifix.Node
}

// pairings lists the action each precondition may drive. Any other combination
// cannot satisfy the idempotence contract and is rejected up front.
var pairings = map[string]string{
	CheckHasField:      ActionDeleteField,
	CheckHasParamNamed: ActionRemoveParamsNamed,
	CheckMissingParam:  ActionAppendParam,
}

func (r Rule) validate() error {
	want, ok := pairings[r.Check]
	if !ok {
		return fmt.Errorf("rule %s: unknown precondition %q", r.ID, r.Check)
	}
	if r.Action != want {
		return fmt.Errorf("rule %s: action %q cannot follow precondition %q", r.ID, r.Action, r.Check)
	}
	if r.Payload == nil {
		return fmt.Errorf("rule %s: missing payload", r.ID)
	}
	switch r.Check {
	case CheckHasField, CheckHasParamNamed:
		if _, ok := r.Payload.StringValue(); !ok {
			return fmt.Errorf("rule %s: payload must be a name string", r.ID)
		}
	case CheckMissingParam:
		if !r.Payload.IsMapping() || !r.Payload.Has("name") || !r.Payload.Has("in") {
			return fmt.Errorf("rule %s: payload must be a parameter object with name and in", r.ID)
		}
	}
	if r.Target.Path == "" || r.Target.Verb == "" {
		return fmt.Errorf("rule %s: target path and verb are required", r.ID)
	}
	return nil
}

// violated reports whether the rule's precondition holds on the operation,
// i.e. the violation is present.
func (r Rule) violated(op *openapifix.Node) bool {
	switch r.Check {
	case CheckHasField:
		field, _ := r.Payload.StringValue()
		return op.Has(field)
	case CheckHasParamNamed:
		name, _ := r.Payload.StringValue()
		params, ok := op.Get("parameters")
		if !ok {
			return false
		}
		for _, p := range params.Items() {
			if paramName(p) == name {
				return true
			}
		}
		return false
	case CheckMissingParam:
		params, _ := op.Get("parameters")
		return !hasEquivalentParam(params, r.Payload)
	}
	return false
}

// apply removes the violation and returns the number of corrections made.
func (r Rule) apply(op *openapifix.Node) int {
	switch r.Action {
	case ActionDeleteField:
		field, _ := r.Payload.StringValue()
		if op.Delete(field) {
			return 1
		}
		return 0
	case ActionRemoveParamsNamed:
		name, _ := r.Payload.StringValue()
		params, ok := op.Get("parameters")
		if !ok {
			return 0
		}
		return params.Filter(func(p *openapifix.Node) bool {
			return paramName(p) != name
		})
	case ActionAppendParam:
		params := openapifix.EnsureSequence(op, "parameters")
		if hasEquivalentParam(params, r.Payload) {
			return 0
		}
		params.Append(r.Payload.Clone())
		return 1
	}
	return 0
}

func paramName(p *openapifix.Node) string {
	if !p.IsMapping() {
		return ""
	}
	n, ok := p.Get("name")
	if !ok {
		return ""
	}
	s, _ := n.StringValue()
	return s
}

func paramIn(p *openapifix.Node) string {
	if !p.IsMapping() {
		return ""
	}
	n, ok := p.Get("in")
	if !ok {
		return ""
	}
	s, _ := n.StringValue()
	return s
}

// hasEquivalentParam reports whether the parameter list already holds an
// element equal to want by the (name, in) equality parameter objects use.
func hasEquivalentParam(params, want *openapifix.Node) bool {
	if params == nil || !params.IsSequence() {
		return false
	}
	name, in := paramName(want), paramIn(want)
	for _, p := range params.Items() {
		if paramName(p) == name && paramIn(p) == in {
			return true
		}
	}
	return false
}
