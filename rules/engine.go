package rules

import (
	openapifix "github.com/rafactx/openapi-fixer-v2"
)

// Engine applies a fixed, externally supplied rule order. Rules are
// independent of each other; the order is reproducible but carries no
// semantics beyond the counters reported.
type Engine struct {
	rules []Rule
}

// New validates every rule's kind pairing and payload shape and returns an
// engine. An invalid rule list is a configuration error, rejected before any
// document is touched.
func New(list []Rule) (*Engine, error) {
	for _, r := range list {
		if err := r.validate(); err != nil {
			return nil, err
		}
	}
	return &Engine{rules: append([]Rule(nil), list...)}, nil
}

// RuleResult holds per-rule counters. Purely observational.
type RuleResult struct {
	ID        string
	Checked   int
	Corrected int
	Skipped   bool // target not found
}

// Report accumulates per-rule results for one Apply pass.
type Report struct {
	Rules  []RuleResult
	Issues openapifix.Issues // non-fatal conditions (skipped targets)
}

// TotalCorrected sums corrections across all rules.
func (r *Report) TotalCorrected() int {
	n := 0
	for _, rr := range r.Rules {
		n += rr.Corrected
	}
	return n
}

// Changed reports whether the pass mutated the document.
func (r *Report) Changed() bool { return r.TotalCorrected() > 0 }

// Apply runs every rule in order against the document. An absent target is
// recorded and skipped, never fatal. Applying the same rule list to the
// resulting document again yields a report with zero corrections.
func (e *Engine) Apply(doc *openapifix.Node) *Report {
	report := &Report{}
	for _, rule := range e.rules {
		res := RuleResult{ID: rule.ID}
		targets := e.resolve(doc, rule.Target)
		if len(targets) == 0 {
			res.Skipped = true
			report.Issues = append(report.Issues, openapifix.Issue{
				Code:    openapifix.CodeTargetNotFound,
				Path:    rule.Target.String(),
				Message: "rule target not found",
				Rule:    rule.ID,
			})
			report.Rules = append(report.Rules, res)
			continue
		}
		for _, op := range targets {
			res.Checked++
			if rule.violated(op) {
				res.Corrected += rule.apply(op)
			}
		}
		report.Rules = append(report.Rules, res)
	}
	return report
}

// Verify re-checks every rule's precondition across the document and returns
// a *openapifix.ValidationError when any violation remains. A converged
// document verifies clean; a rule whose action failed to clear its own
// precondition is caught here.
func (e *Engine) Verify(doc *openapifix.Node) error {
	var violations openapifix.Issues
	for _, rule := range e.rules {
		for _, op := range e.resolve(doc, rule.Target) {
			if rule.violated(op) {
				violations = append(violations, openapifix.Issue{
					Code:    openapifix.CodeRuleViolation,
					Path:    rule.Target.String(),
					Message: "precondition still holds after correction pass",
					Rule:    rule.ID,
				})
			}
		}
	}
	if len(violations) > 0 {
		return &openapifix.ValidationError{Violations: violations}
	}
	return nil
}

// resolve collects the operation nodes a target addresses, in document order.
func (e *Engine) resolve(doc *openapifix.Node, t Target) []*openapifix.Node {
	if t.Path == AllPaths {
		var ops []*openapifix.Node
		openapifix.EachOperation(doc, func(_, verb string, op *openapifix.Node) {
			if verb == t.Verb {
				ops = append(ops, op)
			}
		})
		return ops
	}
	op, ok := openapifix.Operation(doc, t.Path, t.Verb)
	if !ok {
		return nil
	}
	return []*openapifix.Node{op}
}
