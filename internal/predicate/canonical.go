package predicate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// node kinds used in the canonical form.
const (
	kindComparison = "cmp"
	kindIsNull     = "null"
	kindIsNotNull  = "notnull"
	kindAnd        = "and"
	kindOr         = "or"
)

// MarshalCanonical produces RFC 8785 canonical JSON for p.
//
// Each node becomes an object with a "kind" member; object keys are sorted
// by UTF-16 code units, strings are NFC normalised and HTML characters are
// not escaped. The encoding is stable across releases and is what
// Fingerprint hashes.
func MarshalCanonical(p Predicate) ([]byte, error) {
	tree, err := toCanonical(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toCanonical(p Predicate) (any, error) {
	switch node := p.(type) {
	case Comparison:
		if !node.Op.Valid() {
			return nil, fmt.Errorf("invalid operator %s on column %q", node.Op, node.Column)
		}
		return map[string]any{
			"kind":   kindComparison,
			"column": node.Column,
			"op":     node.Op.String(),
			"param":  node.Param,
		}, nil
	case IsNull:
		return map[string]any{"kind": kindIsNull, "column": node.Column}, nil
	case IsNotNull:
		return map[string]any{"kind": kindIsNotNull, "column": node.Column}, nil
	case And:
		children, err := toCanonicalList(node.Predicates)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": kindAnd, "predicates": children}, nil
	case Or:
		children, err := toCanonicalList(node.Predicates)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": kindOr, "predicates": children}, nil
	case nil:
		return nil, fmt.Errorf("nil predicate cannot be canonicalised")
	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func toCanonicalList(ps []Predicate) ([]any, error) {
	out := make([]any, len(ps))
	for i, child := range ps {
		c, err := toCanonical(child)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		return writeCanonicalString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return compareUTF16(keys[i], keys[j]) < 0
		})
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// compareUTF16 orders strings by UTF-16 code units as RFC 8785 requires.
func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	return len(ua) - len(ub)
}
