package serialization

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// decodeYAML strictly decodes raw into v.
//
// Well-formedness of the whole stream is checked first, so that any error
// returned by the typed decode is a schema error and any parse error, even
// one in a trailing document, is a *SyntaxError. The stream must hold
// exactly one document. Unknown fields are rejected.
func decodeYAML(raw []byte, v any) error {
	docs, err := parseDocuments(raw)
	if err != nil {
		return &SyntaxError{Format: "yaml", Err: err}
	}
	if len(docs) == 0 {
		return schemaErrorf("", "empty document")
	}
	if len(docs) > 1 {
		return schemaErrorf("", "expected a single document, found %d", len(docs))
	}
	doc := docs[0]
	if len(doc.Content) == 0 || doc.Content[0].Tag == "!!null" {
		return schemaErrorf("", "empty document")
	}
	if root := doc.Content[0]; root.Kind != yaml.MappingNode {
		return schemaErrorf("", "expected a mapping at the document root, got %s", nodeKindName(root.Kind))
	}
	return decodeStrict(raw, v)
}

// parseDocuments parses every document in raw.
func parseDocuments(raw []byte) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
}

// decodeStrict runs a KnownFields decoder over raw.
func decodeStrict(raw []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return schemaErrorf("", "empty document")
		}
		var schema *SchemaError
		if errors.As(err, &schema) {
			return err
		}
		return &SchemaError{Err: err}
	}
	return nil
}

// decodeNode strictly decodes a subtree. yaml.Node.Decode ignores
// KnownFields, so the subtree is re-encoded and decoded with a strict
// decoder instead.
func decodeNode(n *yaml.Node, v any) error {
	raw, err := yaml.Marshal(n)
	if err != nil {
		return &SchemaError{Err: err}
	}
	return decodeStrict(raw, v)
}

// encodeYAML renders v with two-space indentation.
func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "nothing"
	}
}

// entry is one key/value pair of an ordered YAML mapping.
type entry[V any] struct {
	Key   string
	Value V
}

// mapping is a YAML mapping that keeps key order, used wherever the
// canonical model is an ordered list keyed by ID.
type mapping[V any] []entry[V]

// UnmarshalYAML decodes a mapping node, keeping document order. Values are
// decoded strictly.
func (m *mapping[V]) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		if n.Tag == "!!null" {
			*m = nil
			return nil
		}
		return schemaErrorf("", "line %d: expected a mapping, got %s", n.Line, nodeKindName(n.Kind))
	}
	out := make(mapping[V], 0, len(n.Content)/2)
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if _, dup := seen[k.Value]; dup {
			return schemaErrorf(k.Value, "line %d: duplicate key", k.Line)
		}
		seen[k.Value] = struct{}{}
		var val V
		if err := decodeNode(v, &val); err != nil {
			return wrapField(k.Value, err)
		}
		out = append(out, entry[V]{Key: k.Value, Value: val})
	}
	*m = out
	return nil
}

// MarshalYAML emits the entries as a mapping in slice order.
func (m mapping[V]) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		var k, v yaml.Node
		if err := k.Encode(e.Key); err != nil {
			return nil, err
		}
		if err := v.Encode(e.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &k, &v)
	}
	return n, nil
}

// wrapField prefixes a schema error with the field it occurred under.
func wrapField(field string, err error) error {
	var schema *SchemaError
	if errors.As(err, &schema) {
		f := field
		if schema.Field != "" {
			f = field + "." + schema.Field
		}
		return &SchemaError{Field: f, Msg: schema.Msg, Err: schema.Err}
	}
	return &SchemaError{Field: field, Err: err}
}

// formatFloat renders f in the shortest form that parses back exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// decodeJSON strictly decodes raw into v, rejecting unknown fields and
// trailing content.
func decodeJSON(raw []byte, v any) error {
	if !json.Valid(raw) {
		var discard any
		err := json.Unmarshal(raw, &discard)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return &SyntaxError{Format: "json", Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// normalizeJSON converts json.Number values produced by UseNumber into the
// types the YAML decoder yields for the same scalar: int for integers that
// fit, float64 otherwise.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeJSON(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalizeJSON(inner)
		}
		return t
	default:
		return v
	}
}
