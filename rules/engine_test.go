package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openapifix "github.com/rafactx/openapi-fixer-v2"
	"github.com/rafactx/openapi-fixer-v2/codec"
	"github.com/rafactx/openapi-fixer-v2/rules"
)

func mustDoc(t *testing.T, src string) *openapifix.Node {
	t.Helper()
	n, err := codec.DecodeJSON([]byte(src))
	require.NoError(t, err)
	return n
}

func envParam() *openapifix.Node {
	p := openapifix.NewMapping()
	p.Set("name", openapifix.String("environmentId"))
	p.Set("in", openapifix.String("path"))
	p.Set("required", openapifix.Bool(true))
	schema := openapifix.NewMapping()
	schema.Set("type", openapifix.String("string"))
	p.Set("schema", schema)
	return p
}

func battery(t *testing.T) *rules.Engine {
	t.Helper()
	engine, err := rules.New([]rules.Rule{
		{
			ID:      "no-delete-request-body",
			Target:  rules.Target{Path: rules.AllPaths, Verb: "delete"},
			Check:   rules.CheckHasField,
			Action:  rules.ActionDeleteField,
			Payload: openapifix.String("requestBody"),
		},
		{
			ID:      "brands-no-name-param",
			Target:  rules.Target{Path: "/environments/{environmentId}/brands", Verb: "get"},
			Check:   rules.CheckHasParamNamed,
			Action:  rules.ActionRemoveParamsNamed,
			Payload: openapifix.String("name"),
		},
		{
			ID:      "form-fields-environment-id",
			Target:  rules.Target{Path: "/v1/{environmentId}/form/formFields/{formId}", Verb: "get"},
			Check:   rules.CheckMissingParam,
			Action:  rules.ActionAppendParam,
			Payload: envParam(),
		},
	})
	require.NoError(t, err)
	return engine
}

const semanticDoc = `{
	"paths": {
		"/environments/{environmentId}/employees/{employeeId}/scheduledvisits": {
			"delete": {"requestBody": {"content": {}}, "responses": {}}
		},
		"/environments/{environmentId}/brands": {
			"get": {"parameters": [
				{"name": "name", "in": "query"},
				{"name": "environmentId", "in": "path"}
			]}
		},
		"/v1/{environmentId}/form/formFields/{formId}": {
			"get": {"responses": {}}
		}
	}
}`

func TestEngine_AppliesAllCorrections(t *testing.T) {
	doc := mustDoc(t, semanticDoc)
	engine := battery(t)

	report := engine.Apply(doc)
	assert.Equal(t, 3, report.TotalCorrected())

	// DELETE lost its request body
	op, ok := openapifix.Operation(doc, "/environments/{environmentId}/employees/{employeeId}/scheduledvisits", "delete")
	require.True(t, ok)
	assert.False(t, op.Has("requestBody"))

	// the bogus query parameter is gone, the legitimate one survived
	op, _ = openapifix.Operation(doc, "/environments/{environmentId}/brands", "get")
	params, _ := op.Get("parameters")
	require.Equal(t, 1, params.Len())
	first, _ := params.Item(0)
	name, _ := first.Get("name")
	nameStr, _ := name.StringValue()
	assert.Equal(t, "environmentId", nameStr)

	// environmentId appended exactly once
	op, _ = openapifix.Operation(doc, "/v1/{environmentId}/form/formFields/{formId}", "get")
	params, _ = op.Get("parameters")
	require.Equal(t, 1, params.Len())

	require.NoError(t, engine.Verify(doc))
}

func TestEngine_SecondPassReportsZero(t *testing.T) {
	doc := mustDoc(t, semanticDoc)
	engine := battery(t)

	engine.Apply(doc)
	once := doc.Clone()

	second := engine.Apply(doc)
	assert.Zero(t, second.TotalCorrected(), "second pass must find nothing to fix")
	for _, rr := range second.Rules {
		assert.Zerof(t, rr.Corrected, "rule %s corrected on second pass", rr.ID)
	}
	assert.True(t, doc.Equal(once), "second pass mutated the document")
}

func TestEngine_DeleteRequestBodyScenario(t *testing.T) {
	doc := mustDoc(t, `{"paths":{"/x":{"delete":{"requestBody":{}}}}}`)
	engine, err := rules.New([]rules.Rule{{
		ID:      "no-delete-request-body",
		Target:  rules.Target{Path: rules.AllPaths, Verb: "delete"},
		Check:   rules.CheckHasField,
		Action:  rules.ActionDeleteField,
		Payload: openapifix.String("requestBody"),
	}})
	require.NoError(t, err)

	first := engine.Apply(doc)
	assert.Equal(t, 1, first.TotalCorrected())

	second := engine.Apply(doc)
	assert.Zero(t, second.TotalCorrected())
}

func TestEngine_AppendParamEqualityIsNameAndIn(t *testing.T) {
	// same name but different location: the path param is still missing
	doc := mustDoc(t, `{"paths":{"/v1/{environmentId}/shoppingcenter/{id}":{"get":{
		"parameters":[{"name":"environmentId","in":"query"}]
	}}}}`)
	engine, err := rules.New([]rules.Rule{{
		ID:      "shoppingcenter-environment-id",
		Target:  rules.Target{Path: "/v1/{environmentId}/shoppingcenter/{id}", Verb: "get"},
		Check:   rules.CheckMissingParam,
		Action:  rules.ActionAppendParam,
		Payload: envParam(),
	}})
	require.NoError(t, err)

	report := engine.Apply(doc)
	assert.Equal(t, 1, report.TotalCorrected())

	op, _ := openapifix.Operation(doc, "/v1/{environmentId}/shoppingcenter/{id}", "get")
	params, _ := op.Get("parameters")
	assert.Equal(t, 2, params.Len())

	// and a second run appends nothing
	assert.Zero(t, engine.Apply(doc).TotalCorrected())
}

func TestEngine_MissingTargetIsSkippedNotFatal(t *testing.T) {
	doc := mustDoc(t, `{"paths":{}}`)
	engine, err := rules.New([]rules.Rule{{
		ID:      "ghost",
		Target:  rules.Target{Path: "/nope", Verb: "get"},
		Check:   rules.CheckHasField,
		Action:  rules.ActionDeleteField,
		Payload: openapifix.String("requestBody"),
	}})
	require.NoError(t, err)

	report := engine.Apply(doc)
	require.Len(t, report.Rules, 1)
	assert.True(t, report.Rules[0].Skipped)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, openapifix.CodeTargetNotFound, report.Issues[0].Code)
	assert.NoError(t, engine.Verify(doc))
}

func TestEngine_VerifyCatchesRemainingViolation(t *testing.T) {
	doc := mustDoc(t, `{"paths":{"/x":{"delete":{"requestBody":{}}}}}`)
	engine, err := rules.New([]rules.Rule{{
		ID:      "no-delete-request-body",
		Target:  rules.Target{Path: rules.AllPaths, Verb: "delete"},
		Check:   rules.CheckHasField,
		Action:  rules.ActionDeleteField,
		Payload: openapifix.String("requestBody"),
	}})
	require.NoError(t, err)

	// Verify without Apply: the violation is still there.
	verr := engine.Verify(doc)
	require.Error(t, verr)
	var ve *openapifix.ValidationError
	require.ErrorAs(t, verr, &ve)
	assert.Equal(t, "no-delete-request-body", ve.Violations[0].Rule)
}

func TestNew_RejectsMismatchedPairing(t *testing.T) {
	_, err := rules.New([]rules.Rule{{
		ID:      "bad",
		Target:  rules.Target{Path: "/x", Verb: "get"},
		Check:   rules.CheckHasField,
		Action:  rules.ActionAppendParam,
		Payload: openapifix.String("requestBody"),
	}})
	assert.Error(t, err)
}

func TestNew_RejectsBadPayloads(t *testing.T) {
	_, err := rules.New([]rules.Rule{{
		ID:      "bad-payload",
		Target:  rules.Target{Path: "/x", Verb: "get"},
		Check:   rules.CheckMissingParam,
		Action:  rules.ActionAppendParam,
		Payload: openapifix.String("not a parameter object"),
	}})
	assert.Error(t, err)

	_, err = rules.New([]rules.Rule{{
		ID:      "no-payload",
		Target:  rules.Target{Path: "/x", Verb: "get"},
		Check:   rules.CheckHasField,
		Action:  rules.ActionDeleteField,
	}})
	assert.Error(t, err)
}
