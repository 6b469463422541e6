package openapifix

import (
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeLoadError        = "load_error"
	CodeNameCollision    = "name_collision"
	CodeBrokenReference  = "broken_reference"
	CodeTargetNotFound   = "target_not_found"
	CodeRuleViolation    = "rule_violation"
	CodeMissingPathParam = "missing_path_param"
)

// Issue represents a single reported condition: a skipped target, a remaining
// violation, or a broken pointer. Fatal conditions are surfaced as the typed
// errors below; Issues accumulate the non-fatal ones inside reports.
type Issue struct {
	Path    string // JSON Pointer or $ref value the issue concerns.
	Code    string // One of the codes listed above.
	Message string
	Rule    string // Optional: the rule that produced this issue.
}

// Issues is a collection of reported conditions that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// LoadError reports an unreadable or unparsable document or fragment. Fatal:
// the pipeline aborts before any mutation.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// CollisionError reports a rename map that is not injective or that collides
// with an identifier not being renamed. Fatal: the rename aborts with the
// document unchanged.
type CollisionError struct {
	Name     string // the new name that collides
	First    string // the identifier that claimed the name first
	Conflict string // the identifier whose normalization also claims it
}

func (e *CollisionError) Error() string {
	if e.First != "" {
		return fmt.Sprintf("name collision: %q and %q both normalize to %q", e.First, e.Conflict, e.Name)
	}
	return fmt.Sprintf("name collision: %q normalizes to existing identifier %q", e.Conflict, e.Name)
}

// BrokenReferenceError reports $ref values that resolve to nothing after a
// rewrite. Fatal: the document must not be persisted.
type BrokenReferenceError struct {
	Refs []string
}

func (e *BrokenReferenceError) Error() string {
	return fmt.Sprintf("%d broken reference(s), first: %s", len(e.Refs), e.Refs[0])
}

// TargetNotFoundError reports an absent rule or injection target. Non-fatal:
// callers record it in the phase report and continue.
type TargetNotFoundError struct {
	Target string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target not found: %s", e.Target)
}

// ValidationError reports that the final convergence check of the rule engine
// still found violations. Fatal: the document must not be persisted.
type ValidationError struct {
	Violations Issues
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Violations.Error())
}
