// Package codec loads and saves documents while preserving mapping key order.
// JSON goes through a token-stream decoder so insertion order survives the
// round trip; YAML is handled via yaml.v3 document nodes for the same reason.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	openapifix "github.com/rafactx/openapi-fixer-v2"
)

// DecodeJSON parses JSON into a document tree, preserving object key order.
// Numbers are kept as json.Number so literals round-trip unchanged. Duplicate
// object keys are rejected: a document that silently drops one of two bound
// values is not safe to edit.
func DecodeJSON(data []byte) (*openapifix.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after top-level value")
	}
	return n, nil
}

func decodeValue(dec *json.Decoder) (*openapifix.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (*openapifix.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeMapping(dec)
		case '[':
			return decodeSequence(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v.String())
	case string:
		return openapifix.String(v), nil
	case json.Number:
		return openapifix.Number(v), nil
	case bool:
		return openapifix.Bool(v), nil
	case nil:
		return openapifix.Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeMapping(dec *json.Decoder) (*openapifix.Node, error) {
	out := openapifix.NewMapping()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		if out.Has(key) {
			return nil, fmt.Errorf("duplicate object key %q", key)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out.Set(key, val)
	}
	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeSequence(dec *json.Decoder) (*openapifix.Node, error) {
	out := openapifix.NewSequence()
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out.Append(val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeJSON renders the tree as indented JSON, keys in stored order, with a
// trailing newline. indent is the per-level pad, normally two spaces.
func EncodeJSON(n *openapifix.Node, indent string) ([]byte, error) {
	b := &bytes.Buffer{}
	if err := encodeValue(b, n, indent, ""); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func encodeValue(b *bytes.Buffer, n *openapifix.Node, indent, pad string) error {
	switch n.Kind() {
	case openapifix.KindMapping:
		if n.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		inner := pad + indent
		for i, key := range n.Keys() {
			if i > 0 {
				b.WriteString(",\n")
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return err
			}
			b.WriteString(inner)
			b.Write(kb)
			b.WriteString(": ")
			child, _ := n.Get(key)
			if err := encodeValue(b, child, indent, inner); err != nil {
				return err
			}
		}
		b.WriteString("\n" + pad + "}")
		return nil
	case openapifix.KindSequence:
		if n.Len() == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		inner := pad + indent
		for i, it := range n.Items() {
			if i > 0 {
				b.WriteString(",\n")
			}
			b.WriteString(inner)
			if err := encodeValue(b, it, indent, inner); err != nil {
				return err
			}
		}
		b.WriteString("\n" + pad + "]")
		return nil
	default:
		vb, err := json.Marshal(n.Value())
		if err != nil {
			return err
		}
		b.Write(vb)
		return nil
	}
}
