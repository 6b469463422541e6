package codec

import (
	"os"
	"path/filepath"

	openapifix "github.com/rafactx/openapi-fixer-v2"
)

// LoadDocument reads and parses a JSON document from disk. Failures come back
// as *openapifix.LoadError so the pipeline can abort before mutating anything.
func LoadDocument(path string) (*openapifix.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &openapifix.LoadError{Path: path, Cause: err}
	}
	n, err := DecodeJSON(data)
	if err != nil {
		return nil, &openapifix.LoadError{Path: path, Cause: err}
	}
	return n, nil
}

// LoadYAML reads and parses a YAML file (config, rule spec) from disk.
func LoadYAML(path string) (*openapifix.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &openapifix.LoadError{Path: path, Cause: err}
	}
	n, err := DecodeYAML(data)
	if err != nil {
		return nil, &openapifix.LoadError{Path: path, Cause: err}
	}
	return n, nil
}

// SaveDocument writes the document as two-space-indented JSON. The write goes
// through a temp file in the same directory followed by a rename, so a failed
// write never leaves a truncated document behind.
func SaveDocument(path string, doc *openapifix.Node) error {
	data, err := EncodeJSON(doc, "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
