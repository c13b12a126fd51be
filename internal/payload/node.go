// Package payload wraps decoded provider JSON in a lookup type that never fails:
// any missing segment, non-object segment or JSON null yields an absent Node and
// typed accessors fall back to the caller's default.
package payload

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Parse when the body is not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid json")

// Node is one value inside a JSON document. The zero Node is absent.
type Node struct {
	r gjson.Result
}

// Parse validates body and returns its root node.
func Parse(body []byte) (Node, error) {
	if !gjson.ValidBytes(body) {
		return Node{}, ErrInvalidJSON
	}
	return Node{r: gjson.ParseBytes(body)}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(body string) Node {
	n, err := Parse([]byte(body))
	if err != nil {
		panic(err)
	}
	return n
}

// Get walks keys one object level at a time. Keys are matched literally, so
// dots and wildcards in provider field names need no escaping.
func (n Node) Get(keys ...string) Node {
	cur := n.r
	for _, key := range keys {
		if !cur.IsObject() {
			return Node{}
		}
		var next gjson.Result
		cur.ForEach(func(k, v gjson.Result) bool {
			if k.Str == key {
				next = v
				return false
			}
			return true
		})
		cur = next
	}
	return Node{r: cur}
}

// Index returns the i-th element of an array node.
func (n Node) Index(i int) Node {
	if !n.r.IsArray() || i < 0 {
		return Node{}
	}
	items := n.r.Array()
	if i >= len(items) {
		return Node{}
	}
	return Node{r: items[i]}
}

// Exists reports whether the node holds a non-null value.
func (n Node) Exists() bool {
	return n.r.Exists() && n.r.Type != gjson.Null
}

func (n Node) IsObject() bool { return n.r.IsObject() }
func (n Node) IsArray() bool  { return n.r.IsArray() }

// Array returns the elements of an array node, or nil for anything else.
func (n Node) Array() []Node {
	if !n.r.IsArray() {
		return nil
	}
	items := n.r.Array()
	out := make([]Node, 0, len(items))
	for _, item := range items {
		out = append(out, Node{r: item})
	}
	return out
}

// Len is the element count of an array node.
func (n Node) Len() int {
	if !n.r.IsArray() {
		return 0
	}
	return len(n.r.Array())
}

// String returns the node's text. Scalars other than strings are rendered in
// their JSON form; objects, arrays and absent nodes yield def.
func (n Node) String(def string) string {
	if !n.Exists() {
		return def
	}
	switch n.r.Type {
	case gjson.String:
		return n.r.Str
	case gjson.Number:
		return n.r.Raw
	case gjson.True, gjson.False:
		return n.r.Raw
	}
	return def
}

// Number returns the value only when the node is a JSON number.
func (n Node) Number() (float64, bool) {
	if n.r.Type != gjson.Number {
		return 0, false
	}
	return n.r.Num, true
}

// Float accepts JSON numbers and numeric strings.
func (n Node) Float() (float64, bool) {
	switch n.r.Type {
	case gjson.Number:
		return n.r.Num, true
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(n.r.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// FloatOr is Float with a default.
func (n Node) FloatOr(def float64) float64 {
	if v, ok := n.Float(); ok {
		return v
	}
	return def
}

// Decimal returns the literal decimal text of a number or numeric string
// without passing it through float64.
func (n Node) Decimal() (string, bool) {
	switch n.r.Type {
	case gjson.Number:
		return n.r.Raw, true
	case gjson.String:
		s := strings.TrimSpace(n.r.Str)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}

// Raw is the JSON text of the node, empty when absent.
func (n Node) Raw() string {
	return n.r.Raw
}
