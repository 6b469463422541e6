package rules

import (
	"fmt"
	"regexp"

	openapifix "github.com/rafactx/openapi-fixer-v2"
)

var templateParam = regexp.MustCompile(`\{([^}]+)\}`)

// PathParamAudit walks every operation and reports the ones whose URL
// template names a {param} with no matching in:path parameter declared on the
// operation. Observational only: the audit feeds the verify subcommand's
// report and drives no corrections.
func PathParamAudit(doc *openapifix.Node) openapifix.Issues {
	var issues openapifix.Issues
	openapifix.EachOperation(doc, func(tmpl, verb string, op *openapifix.Node) {
		declared := map[string]bool{}
		if params, ok := op.Get("parameters"); ok {
			for _, p := range params.Items() {
				if paramIn(p) == "path" {
					declared[paramName(p)] = true
				}
			}
		}
		for _, m := range templateParam.FindAllStringSubmatch(tmpl, -1) {
			if !declared[m[1]] {
				issues = append(issues, openapifix.Issue{
					Code:    openapifix.CodeMissingPathParam,
					Path:    fmt.Sprintf("%s %s", verb, tmpl),
					Message: fmt.Sprintf("path parameter %q is not declared", m[1]),
				})
			}
		}
	})
	return issues
}
