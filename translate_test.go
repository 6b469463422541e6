package openapifix_test

import (
	"testing"

	openapifix "github.com/rafactx/openapi-fixer-v2"
)

func TestTranslate_KeysAndStringScalars(t *testing.T) {
	doc := mustDoc(t, `{"PLACEHOLDER_TITLE":{"description":"PLACEHOLDER_DESC","count":3,"flag":true}}`)
	dict := map[string]string{
		"PLACEHOLDER_TITLE": "Title",
		"PLACEHOLDER_DESC":  "A description",
	}

	out := openapifix.Translate(doc, dict)

	title, ok := out.Get("Title")
	if !ok {
		t.Fatalf("key not translated: %v", out.Keys())
	}
	desc, _ := title.Get("description")
	if s, _ := desc.StringValue(); s != "A description" {
		t.Fatalf("scalar not translated: %q", s)
	}
	count, _ := title.Get("count")
	if count.Value() == nil || !count.IsScalar() {
		t.Fatalf("non-string scalar should pass through")
	}

	// input tree untouched
	if !doc.Has("PLACEHOLDER_TITLE") {
		t.Fatalf("Translate mutated its input")
	}
}

func TestTranslate_ShapeInvariant(t *testing.T) {
	doc := mustDoc(t, `{"a":["X","Y","Z"],"b":{"c":"X","d":null}}`)
	out := openapifix.Translate(doc, map[string]string{"X": "x"})

	if out.Len() != doc.Len() {
		t.Fatalf("key count changed: %d != %d", out.Len(), doc.Len())
	}
	seq, _ := out.Get("a")
	if seq.Len() != 3 {
		t.Fatalf("sequence length changed: %d", seq.Len())
	}
	b, _ := out.Get("b")
	if b.Len() != 2 {
		t.Fatalf("nested key count changed: %d", b.Len())
	}
}

func TestTranslate_ValueRewrittenUnderTranslatedKey(t *testing.T) {
	doc := mustDoc(t, `{"OLD_KEY":"OLD_VAL"}`)
	out := openapifix.Translate(doc, map[string]string{"OLD_KEY": "k", "OLD_VAL": "v"})

	v, ok := out.Get("k")
	if !ok {
		t.Fatalf("key not translated")
	}
	if s, _ := v.StringValue(); s != "v" {
		t.Fatalf("value under translated key not rewritten: %q", s)
	}
}

func TestTranslate_EmptyDictIsIdentity(t *testing.T) {
	doc := mustDoc(t, `{"a":"b"}`)
	out := openapifix.Translate(doc, nil)
	if !out.Equal(doc) {
		t.Fatalf("empty dictionary should copy the tree unchanged")
	}
}
