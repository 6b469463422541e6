// Package hydrate merges caller-supplied fragments into an OpenAPI document:
// metadata, security schemes, common schemas, global parameters, default
// error responses, operation summaries, and the ordered tag list. Every step
// is idempotent; re-running hydration against an already-hydrated document
// changes nothing.
package hydrate

import (
	"fmt"
	"strings"

	openapifix "github.com/rafactx/openapi-fixer-v2"
	"github.com/rafactx/openapi-fixer-v2/codec"
)

// Classifier maps an operation's path template to an error-response category.
// It is a pure function injected by the caller; the injector treats the
// returned category as an opaque key into Config.ErrorResponses.
type Classifier func(path string) string

// ErrorClass binds a category name to the path prefixes that select it.
type ErrorClass struct {
	Category string
	Prefixes []string
}

// Config is the hydration fragment set, normally loaded from a YAML file.
// Fragment bodies are opaque trees owned by the config author.
type Config struct {
	Info             *openapifix.Node // metadata.info
	Servers          *openapifix.Node // metadata.servers
	SecuritySchemes  *openapifix.Node // mapping name -> scheme
	DefaultSecurity  *openapifix.Node // global security requirement sequence
	CommonSchemas    *openapifix.Node // mapping name -> schema
	GlobalParameters *openapifix.Node // mapping name -> parameter object
	ErrorResponses   *openapifix.Node // mapping category -> status -> response
	ErrorClasses     []ErrorClass     // prefix rules, first match wins
	DefaultClass     string           // category when no prefix matches
	TagOrder         []string         // ui ordering for the tag array
}

// Classifier builds the path classifier from the config's prefix rules.
func (c *Config) Classifier() Classifier {
	classes := append([]ErrorClass(nil), c.ErrorClasses...)
	fallback := c.DefaultClass
	return func(path string) string {
		for _, cl := range classes {
			for _, p := range cl.Prefixes {
				if strings.HasPrefix(path, p) {
					return cl.Category
				}
			}
		}
		return fallback
	}
}

// LoadConfig reads and parses a hydration config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	root, err := codec.LoadYAML(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(root)
	if err != nil {
		return nil, &openapifix.LoadError{Path: path, Cause: err}
	}
	return cfg, nil
}

// ParseConfig builds a Config from a decoded YAML tree. Sections are
// optional: a missing section simply skips its injection step.
func ParseConfig(root *openapifix.Node) (*Config, error) {
	if !root.IsMapping() {
		return nil, fmt.Errorf("config: top level must be a mapping")
	}
	cfg := &Config{DefaultClass: "legacy"}

	if meta, ok := root.Get("metadata"); ok {
		cfg.Info, _ = meta.Get("info")
		cfg.Servers, _ = meta.Get("servers")
	}
	cfg.SecuritySchemes, _ = root.Get("security_schemes")
	cfg.DefaultSecurity, _ = root.Get("default_security")
	cfg.CommonSchemas, _ = root.Get("common_schemas")
	cfg.GlobalParameters, _ = root.Get("global_parameters")
	cfg.ErrorResponses, _ = root.Get("default_error_responses")

	if classes, ok := root.Get("error_classes"); ok {
		if !classes.IsMapping() {
			return nil, fmt.Errorf("config: error_classes must be a mapping")
		}
		for _, cat := range classes.Keys() {
			prefixes, _ := classes.Get(cat)
			ec := ErrorClass{Category: cat}
			for _, p := range prefixes.Items() {
				if s, ok := p.StringValue(); ok {
					ec.Prefixes = append(ec.Prefixes, s)
				}
			}
			cfg.ErrorClasses = append(cfg.ErrorClasses, ec)
		}
	}
	if dc, ok := root.Get("default_error_class"); ok {
		if s, ok := dc.StringValue(); ok {
			cfg.DefaultClass = s
		}
	}
	if ui, ok := root.Get("ui_ordering"); ok {
		if order, ok := ui.Get("tag_order"); ok {
			for _, t := range order.Items() {
				if s, ok := t.StringValue(); ok {
					cfg.TagOrder = append(cfg.TagOrder, s)
				}
			}
		}
	}
	return cfg, nil
}

// LoadStringMap reads a flat string-to-string JSON file (translation
// dictionary, operation summaries).
func LoadStringMap(path string) (map[string]string, error) {
	root, err := codec.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	if !root.IsMapping() {
		return nil, &openapifix.LoadError{Path: path, Cause: fmt.Errorf("expected a flat JSON object")}
	}
	out := make(map[string]string, root.Len())
	for _, k := range root.Keys() {
		v, _ := root.Get(k)
		s, ok := v.StringValue()
		if !ok {
			return nil, &openapifix.LoadError{Path: path, Cause: fmt.Errorf("key %q: value is not a string", k)}
		}
		out[k] = s
	}
	return out, nil
}
