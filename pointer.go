package jsonschema

import (
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// Pointer is an ordered sequence of JSON Pointer tokens (RFC 6901),
// supporting the empty pointer (document root) and lexical concatenation,
// per spec §3.1 and §4.1.
type Pointer []string

// ParsePointer parses a JSON Pointer string (leading "/" or empty) into its
// tokens, delegating escape handling (~0/~1) to kaptinlin/jsonpointer.
func ParsePointer(s string) Pointer {
	if s == "" {
		return Pointer{}
	}
	return Pointer(jsonpointer.Parse(s))
}

// String renders the pointer back to its RFC 6901 textual form.
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range p {
		b.WriteByte('/')
		b.WriteString(escapeToken(tok))
	}
	return b.String()
}

func escapeToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}

// Push returns a new Pointer with tok appended.
func (p Pointer) Push(tok string) Pointer {
	out := make(Pointer, len(p)+1)
	copy(out, p)
	out[len(p)] = tok
	return out
}

// PushIndex is Push for an array index token.
func (p Pointer) PushIndex(i int) Pointer {
	return p.Push(strconv.Itoa(i))
}

// Pop returns a new Pointer with its last token removed, and ok=false if p
// is already empty.
func (p Pointer) Pop() (Pointer, bool) {
	if len(p) == 0 {
		return p, false
	}
	return p[:len(p)-1], true
}

// Concat returns a new Pointer with other's tokens appended after p's.
func (p Pointer) Concat(other Pointer) Pointer {
	out := make(Pointer, 0, len(p)+len(other))
	out = append(out, p...)
	out = append(out, other...)
	return out
}

// Equal reports whether p and other have identical tokens.
func (p Pointer) Equal(other Pointer) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Resolve walks doc following p's tokens, returning the value at that
// location. Array tokens must be base-10 non-negative integers, or "-" to
// mean one-past-the-end (only meaningful for JSON Patch-style callers, and
// rejected here since it never addresses an existing value).
func (p Pointer) Resolve(doc any) (any, error) {
	cur := doc
	for _, tok := range p {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[tok]
			if !ok {
				return nil, ErrPointerResolveFailed
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, ErrPointerResolveFailed
			}
			cur = v[idx]
		default:
			return nil, ErrPointerResolveFailed
		}
	}
	return cur, nil
}
