// Package cache provides key/value persistence for assembled reports with
// optional expiry and two serialization modes: whole-document blobs and
// flattened dot-path fields.
package cache

import "strings"

// Flatten converts a nested document into a single-level map keyed by
// dot-separated paths (a.b.c). Only nested maps are recursed into; arrays and
// non-map leaves are terminal values.
func Flatten(doc map[string]any) map[string]any {
	flat := make(map[string]any, len(doc))
	flattenInto(flat, "", doc)
	return flat
}

func flattenInto(flat map[string]any, prefix string, doc map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(flat, key, nested)
			continue
		}
		flat[key] = v
	}
}

// Unflatten rebuilds the nested document from dot-path keys, so that
// Unflatten(Flatten(doc)) == doc for documents whose leaves are scalars,
// strings, or arrays.
func Unflatten(flat map[string]any) map[string]any {
	doc := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		node := doc
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	return doc
}
