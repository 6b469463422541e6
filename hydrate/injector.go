package hydrate

import (
	"fmt"
	"strings"

	openapifix "github.com/rafactx/openapi-fixer-v2"
)

// Report counts what one hydration pass actually changed. A second pass over
// the same document reports all zeros.
type Report struct {
	MetadataSet    int  // info/servers blocks replaced with different content
	SchemesMerged  int  // security schemes added or overwritten
	SchemasMerged  int  // common schemas added or overwritten
	Translated     bool // placeholder translation changed the document
	SummariesSet   int
	ErrorsAdded    int  // default error responses attached to operations
	ParamRefsAdded int  // global parameter $refs appended to operations
	TagsRebuilt    bool
	Issues         openapifix.Issues
}

// Changed reports whether the pass mutated the document.
func (r *Report) Changed() bool {
	return r.MetadataSet > 0 || r.SchemesMerged > 0 || r.SchemasMerged > 0 ||
		r.Translated || r.SummariesSet > 0 || r.ErrorsAdded > 0 ||
		r.ParamRefsAdded > 0 || r.TagsRebuilt
}

// Injector merges config fragments into a document. It holds no document
// state; the same injector may hydrate any number of documents.
type Injector struct {
	cfg       *Config
	classify  Classifier
	dict      map[string]string
	summaries map[string]string
}

// New builds an injector. classify may be nil, in which case the config's
// prefix rules are used. dict and summaries may be nil to skip placeholder
// translation and summary injection.
func New(cfg *Config, classify Classifier, dict, summaries map[string]string) *Injector {
	if classify == nil {
		classify = cfg.Classifier()
	}
	return &Injector{cfg: cfg, classify: classify, dict: dict, summaries: summaries}
}

// Run hydrates the document in place and returns the change report. Steps run
// in a fixed order, with placeholder translation between schema injection and
// summary injection so injected fragments are translated too. Every step
// merges by key or by structural equality, so repeated runs are no-ops.
func (inj *Injector) Run(doc *openapifix.Node) (*Report, error) {
	if !doc.IsMapping() {
		return nil, fmt.Errorf("hydrate: document root must be a mapping")
	}
	report := &Report{}
	inj.injectMetadata(doc, report)
	inj.injectSecurity(doc, report)
	inj.injectCommonSchemas(doc, report)
	inj.translatePlaceholders(doc, report)
	inj.injectSummaries(doc, report)
	inj.injectErrorResponses(doc, report)
	inj.injectGlobalParameters(doc, report)
	inj.applyTagOrdering(doc, report)
	return report, nil
}

func (inj *Injector) translatePlaceholders(doc *openapifix.Node, report *Report) {
	if len(inj.dict) == 0 {
		return
	}
	translated := openapifix.Translate(doc, inj.dict)
	if !doc.Equal(translated) {
		doc.ReplaceWith(translated)
		report.Translated = true
	}
}

// setIfDifferent overwrites key only when the new value differs, so the
// report stays zero on re-runs.
func setIfDifferent(parent *openapifix.Node, key string, v *openapifix.Node) bool {
	if cur, ok := parent.Get(key); ok && cur.Equal(v) {
		return false
	}
	parent.Set(key, v.Clone())
	return true
}

func (inj *Injector) injectMetadata(doc *openapifix.Node, report *Report) {
	if inj.cfg.Info != nil && setIfDifferent(doc, "info", inj.cfg.Info) {
		report.MetadataSet++
	}
	if inj.cfg.Servers != nil && setIfDifferent(doc, "servers", inj.cfg.Servers) {
		report.MetadataSet++
	}
}

func (inj *Injector) injectSecurity(doc *openapifix.Node, report *Report) {
	if inj.cfg.SecuritySchemes != nil {
		schemes := openapifix.EnsureMapping(doc, "components", "securitySchemes")
		for _, name := range inj.cfg.SecuritySchemes.Keys() {
			def, _ := inj.cfg.SecuritySchemes.Get(name)
			if setIfDifferent(schemes, name, def) {
				report.SchemesMerged++
			}
		}
	}
	if inj.cfg.DefaultSecurity != nil && setIfDifferent(doc, "security", inj.cfg.DefaultSecurity) {
		report.MetadataSet++
	}
}

func (inj *Injector) injectCommonSchemas(doc *openapifix.Node, report *Report) {
	if inj.cfg.CommonSchemas == nil {
		return
	}
	schemas := openapifix.EnsureMapping(doc, "components", "schemas")
	for _, name := range inj.cfg.CommonSchemas.Keys() {
		def, _ := inj.cfg.CommonSchemas.Get(name)
		if setIfDifferent(schemas, name, def) {
			report.SchemasMerged++
		}
	}
}

func (inj *Injector) injectSummaries(doc *openapifix.Node, report *Report) {
	if len(inj.summaries) == 0 {
		return
	}
	openapifix.EachOperation(doc, func(_, _ string, op *openapifix.Node) {
		idNode, ok := op.Get("operationId")
		if !ok {
			return
		}
		id, ok := idNode.StringValue()
		if !ok {
			return
		}
		summary, ok := inj.summaries[id]
		if !ok {
			return
		}
		if setIfDifferent(op, "summary", openapifix.String(summary)) {
			report.SummariesSet++
		}
	})
}

func (inj *Injector) injectErrorResponses(doc *openapifix.Node, report *Report) {
	if inj.cfg.ErrorResponses == nil {
		return
	}
	openapifix.EachOperation(doc, func(tmpl, verb string, op *openapifix.Node) {
		category := inj.classify(tmpl)
		templates, ok := inj.cfg.ErrorResponses.Get(category)
		if !ok {
			report.Issues = append(report.Issues, openapifix.Issue{
				Code:    openapifix.CodeTargetNotFound,
				Path:    fmt.Sprintf("%s %s", verb, tmpl),
				Message: fmt.Sprintf("no error-response templates for category %q", category),
			})
			return
		}
		responses := openapifix.EnsureMapping(doc, "paths", tmpl, verb, "responses")
		for _, status := range templates.Keys() {
			if responses.Has(status) {
				continue // existing responses are never overwritten
			}
			def, _ := templates.Get(status)
			responses.Set(status, def.Clone())
			report.ErrorsAdded++
		}
	})
}

func (inj *Injector) injectGlobalParameters(doc *openapifix.Node, report *Report) {
	if inj.cfg.GlobalParameters == nil || inj.cfg.GlobalParameters.Len() == 0 {
		return
	}
	registry := openapifix.EnsureMapping(doc, "components", "parameters")
	for _, name := range inj.cfg.GlobalParameters.Keys() {
		def, _ := inj.cfg.GlobalParameters.Get(name)
		if setIfDifferent(registry, name, def) {
			report.ParamRefsAdded++
		}
	}
	openapifix.EachOperation(doc, func(_, _ string, op *openapifix.Node) {
		params := openapifix.EnsureSequence(op, "parameters")
		for _, name := range inj.cfg.GlobalParameters.Keys() {
			ref := openapifix.NewMapping()
			ref.Set(openapifix.RefKey, openapifix.String(openapifix.JoinRef("#/components/parameters/", name)))
			if containsEqual(params, ref) {
				continue
			}
			params.Append(ref)
			report.ParamRefsAdded++
		}
	})
}

// containsEqual reports whether the sequence holds a structurally equal
// element; skipping equal entries is what makes repeated injection a no-op.
func containsEqual(seq, want *openapifix.Node) bool {
	for _, it := range seq.Items() {
		if it.Equal(want) {
			return true
		}
	}
	return false
}

func (inj *Injector) applyTagOrdering(doc *openapifix.Node, report *Report) {
	if len(inj.cfg.TagOrder) == 0 {
		return
	}
	// Collect tags observed on operations, in document order.
	seen := map[string]bool{}
	var observed []string
	openapifix.EachOperation(doc, func(_, _ string, op *openapifix.Node) {
		tags, ok := op.Get("tags")
		if !ok {
			return
		}
		for _, t := range tags.Items() {
			if s, ok := t.StringValue(); ok && !seen[s] {
				seen[s] = true
				observed = append(observed, s)
			}
		}
	})

	ordered := openapifix.NewSequence()
	appendTag := func(name string) {
		entry := openapifix.NewMapping()
		entry.Set("name", openapifix.String(name))
		entry.Set("description", openapifix.String("Operations related to "+strings.ToLower(name)))
		ordered.Append(entry)
	}
	inOrder := map[string]bool{}
	for _, name := range inj.cfg.TagOrder {
		if seen[name] {
			inOrder[name] = true
			appendTag(name)
		}
	}
	for _, name := range observed {
		if !inOrder[name] {
			appendTag(name)
		}
	}
	if cur, ok := doc.Get("tags"); !ok || !cur.Equal(ordered) {
		doc.Set("tags", ordered)
		report.TagsRebuilt = true
	}
}
