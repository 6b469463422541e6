package openapifix_test

import (
	"reflect"
	"testing"

	openapifix "github.com/rafactx/openapi-fixer-v2"
	"github.com/rafactx/openapi-fixer-v2/codec"
)

// mustDoc parses a JSON document for test setup.
func mustDoc(t *testing.T, src string) *openapifix.Node {
	t.Helper()
	n, err := codec.DecodeJSON([]byte(src))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return n
}

func TestLookup(t *testing.T) {
	doc := mustDoc(t, `{"components":{"schemas":{"A":{"type":"object"}}}}`)

	n, ok := openapifix.Lookup(doc, "components", "schemas", "A")
	if !ok {
		t.Fatalf("expected to find components.schemas.A")
	}
	ty, _ := n.Get("type")
	if s, _ := ty.StringValue(); s != "object" {
		t.Fatalf("wrong node found: %v", s)
	}

	if _, ok := openapifix.Lookup(doc, "components", "missing"); ok {
		t.Fatalf("found a node that does not exist")
	}
}

func TestEnsureMapping_DoesNotDisturbSiblings(t *testing.T) {
	doc := mustDoc(t, `{"info":{"title":"t"},"paths":{}}`)

	schemas := openapifix.EnsureMapping(doc, "components", "schemas")
	schemas.Set("Err", openapifix.NewMapping())

	if got := doc.Keys(); !reflect.DeepEqual(got, []string{"info", "paths", "components"}) {
		t.Fatalf("top-level keys = %v", got)
	}
	// second call reuses the same container
	again := openapifix.EnsureMapping(doc, "components", "schemas")
	if !again.Has("Err") {
		t.Fatalf("EnsureMapping created a fresh container instead of reusing")
	}
}

func TestWalk_PreOrderPointers(t *testing.T) {
	doc := mustDoc(t, `{"a":{"b":[true]}}`)

	var ptrs []string
	openapifix.Walk(doc, func(ptr string, _ *openapifix.Node) bool {
		ptrs = append(ptrs, ptr)
		return true
	})
	want := []string{"/", "/a", "/a/b", "/a/b/0"}
	if !reflect.DeepEqual(ptrs, want) {
		t.Fatalf("pointers = %v, want %v", ptrs, want)
	}
}

func TestWalk_Prune(t *testing.T) {
	doc := mustDoc(t, `{"skip":{"deep":1},"keep":2}`)

	var visited []string
	openapifix.Walk(doc, func(ptr string, _ *openapifix.Node) bool {
		visited = append(visited, ptr)
		return ptr != "/skip"
	})
	for _, p := range visited {
		if p == "/skip/deep" {
			t.Fatalf("descended into pruned subtree")
		}
	}
}

func TestEachOperation_DocumentOrderAndVerbFilter(t *testing.T) {
	doc := mustDoc(t, `{"paths":{
		"/b":{"get":{},"x-extension":{"not":"an op"}},
		"/a":{"delete":{},"post":{}}
	}}`)

	var seen []string
	openapifix.EachOperation(doc, func(tmpl, verb string, _ *openapifix.Node) {
		seen = append(seen, verb+" "+tmpl)
	})
	want := []string{"get /b", "delete /a", "post /a"}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("operations = %v, want %v", seen, want)
	}
}

func TestCutRefPrefix(t *testing.T) {
	ident, ok := openapifix.CutRefPrefix("#/components/schemas/Banner V1", openapifix.SchemaRefPrefix)
	if !ok || ident != "Banner V1" {
		t.Fatalf("ident = %q ok = %v", ident, ok)
	}
	if _, ok := openapifix.CutRefPrefix("#/components/parameters/X", openapifix.SchemaRefPrefix); ok {
		t.Fatalf("prefix mismatch should not cut")
	}
	if _, ok := openapifix.CutRefPrefix(openapifix.SchemaRefPrefix, openapifix.SchemaRefPrefix); ok {
		t.Fatalf("empty identifier should not cut")
	}
}

func TestPath_Escaping(t *testing.T) {
	p := openapifix.NewPath().Field("paths").Field("/v1/{id}").Index(2)
	if got := p.Pointer(); got != "/paths/~1v1~1{id}/2" {
		t.Fatalf("pointer = %q", got)
	}
	if got := openapifix.NewPath().Pointer(); got != "/" {
		t.Fatalf("root pointer = %q", got)
	}
}
