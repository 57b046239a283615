package ptree

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON reports a document that could not be parsed. Callers decide
// whether to surface or swallow it; Parse never partially succeeds.
var ErrInvalidJSON = errors.New("invalid JSON document")

// Tree is a read-only property-tree view over a JSON document or one of its
// subtrees. The zero value is not useful; obtain trees from Parse,
// ErrorTree or Child.
type Tree struct {
	res gjson.Result
}

// Parse builds a Tree from raw JSON bytes. The document is validated up
// front: a malformed body yields ErrInvalidJSON and no tree.
func Parse(body []byte) (*Tree, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("ptree: %w", ErrInvalidJSON)
	}
	return &Tree{res: gjson.ParseBytes(body)}, nil
}

// ErrorTree builds the single-key substitute document {"error": msg} used
// when a remote exchange did not produce a usable body.
func ErrorTree(msg string) *Tree {
	raw, _ := json.Marshal(map[string]string{"error": msg})
	return &Tree{res: gjson.ParseBytes(raw)}
}

// Has reports whether a value exists at path. A nil tree has no children.
func (t *Tree) Has(path string) bool {
	if t == nil {
		return false
	}
	return t.res.Get(path).Exists()
}

// Value returns the scalar at path rendered as a string, or "" when the
// path does not resolve.
func (t *Tree) Value(path string) string {
	if t == nil {
		return ""
	}
	return t.res.Get(path).String()
}

// Child returns the subtree at path, or nil when the path does not resolve.
func (t *Tree) Child(path string) *Tree {
	if t == nil {
		return nil
	}
	res := t.res.Get(path)
	if !res.Exists() {
		return nil
	}
	return &Tree{res: res}
}

// Len returns the number of direct children: array elements for arrays,
// keys for objects, zero for scalars and nil trees.
func (t *Tree) Len() int {
	if t == nil || !t.isContainer() {
		return 0
	}
	n := 0
	t.res.ForEach(func(_, _ gjson.Result) bool {
		n++
		return true
	})
	return n
}

// ForEach visits the direct children of t in document order. For objects
// the key is the member name; for arrays it is the element index. Scalars
// have no children. The walk stops early when fn returns false.
func (t *Tree) ForEach(fn func(key string, child *Tree) bool) {
	if t == nil || !t.isContainer() {
		return
	}

	if t.res.IsArray() {
		idx := 0
		t.res.ForEach(func(_, value gjson.Result) bool {
			more := fn(strconv.Itoa(idx), &Tree{res: value})
			idx++
			return more
		})
		return
	}

	t.res.ForEach(func(key, value gjson.Result) bool {
		return fn(key.String(), &Tree{res: value})
	})
}

func (t *Tree) isContainer() bool {
	return t.res.IsObject() || t.res.IsArray()
}

// Raw returns the underlying JSON text of the tree, "" for nil trees.
func (t *Tree) Raw() string {
	if t == nil {
		return ""
	}
	return t.res.Raw
}

// String renders the tree's own value: scalars as their text, containers as
// raw JSON.
func (t *Tree) String() string {
	if t == nil {
		return ""
	}
	return t.res.String()
}
