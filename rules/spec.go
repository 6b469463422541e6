package rules

import (
	"fmt"

	openapifix "github.com/rafactx/openapi-fixer-v2"
	"github.com/rafactx/openapi-fixer-v2/codec"
)

// LoadSpec reads an ordered rule list from a YAML file. The document is a
// sequence of records:
//
//	- id: RULE-01
//	  target: { path: "*", verb: delete }
//	  check: has-field
//	  action: delete-field
//	  payload: requestBody
//
// Payloads stay opaque trees: a scalar name for field/parameter rules, a full
// parameter object for append-param. The list is validated via New.
func LoadSpec(path string) (*Engine, error) {
	root, err := codec.LoadYAML(path)
	if err != nil {
		return nil, err
	}
	return ParseSpec(root)
}

// ParseSpec builds an engine from an already-decoded rule list.
func ParseSpec(root *openapifix.Node) (*Engine, error) {
	if !root.IsSequence() {
		return nil, fmt.Errorf("rule spec: top level must be a sequence of rules")
	}
	var list []Rule
	for i, rec := range root.Items() {
		r, err := parseRule(rec)
		if err != nil {
			return nil, fmt.Errorf("rule spec: entry %d: %w", i, err)
		}
		list = append(list, r)
	}
	return New(list)
}

func parseRule(rec *openapifix.Node) (Rule, error) {
	if !rec.IsMapping() {
		return Rule{}, fmt.Errorf("rule record must be a mapping")
	}
	r := Rule{
		ID:     stringField(rec, "id"),
		Check:  stringField(rec, "check"),
		Action: stringField(rec, "action"),
	}
	if r.ID == "" {
		return Rule{}, fmt.Errorf("missing id")
	}
	tgt, ok := rec.Get("target")
	if !ok || !tgt.IsMapping() {
		return Rule{}, fmt.Errorf("missing target mapping")
	}
	r.Target = Target{Path: stringField(tgt, "path"), Verb: stringField(tgt, "verb")}
	payload, ok := rec.Get("payload")
	if !ok {
		return Rule{}, fmt.Errorf("missing payload")
	}
	r.Payload = payload.Clone()
	return r, nil
}

func stringField(m *openapifix.Node, key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.StringValue()
	return s
}
