package codec_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	openapifix "github.com/rafactx/openapi-fixer-v2"
	"github.com/rafactx/openapi-fixer-v2/codec"
)

func TestLoadDocument_MissingFileIsLoadError(t *testing.T) {
	_, err := codec.LoadDocument(filepath.Join(t.TempDir(), "absent.json"))
	var le *openapifix.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadDocument_BadJSONIsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := codec.LoadDocument(path)
	var le *openapifix.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	doc := openapifix.NewMapping()
	doc.Set("openapi", openapifix.String("3.0.0"))
	doc.Set("paths", openapifix.NewMapping())

	if err := codec.SaveDocument(path, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := codec.LoadDocument(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Equal(doc) {
		t.Fatalf("saved document does not round trip")
	}

	// no temp files left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("stray files in dir: %v", entries)
	}
}
