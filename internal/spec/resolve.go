package spec

import (
	"fmt"
	"strings"
)

// resolveValue replaces local $ref references ("#/components/...") with the
// referenced value, recursively. External references are left as-is. A
// reference already being expanded further up the chain is also left in
// place, so recursive schemas (a Node whose items refer back to Node) stay
// representable instead of expanding forever.
func (d *Document) resolveValue(v any) (any, error) {
	return d.resolve(v, map[string]bool{})
}

// resolve walks the value. visited holds the $ref targets on the current
// expansion path; entries are removed on the way back out so sibling
// references to the same target still resolve.
func (d *Document) resolve(v any, visited map[string]bool) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val["$ref"].(string); ok {
			if !strings.HasPrefix(ref, "#/") || visited[ref] {
				return val, nil
			}
			target, err := d.lookupRef(ref)
			if err != nil {
				return nil, err
			}
			visited[ref] = true
			resolved, err := d.resolve(target, visited)
			delete(visited, ref)
			return resolved, err
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			resolved, err := d.resolve(inner, visited)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			resolved, err := d.resolve(inner, visited)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// lookupRef walks the document following a local JSON pointer like
// "#/components/schemas/Pet".
func (d *Document) lookupRef(ref string) (any, error) {
	parts := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
	var cur any = d.raw
	for _, part := range parts {
		// Unescape per JSON Pointer rules.
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unresolvable reference %q", ref)
		}
		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("unresolvable reference %q", ref)
		}
	}
	return cur, nil
}
