package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// leaf is one stored row: a path and the JSON encoding of its value.
type leaf struct {
	path  string
	value string
}

// encodeTree flattens value into leaf rows under base. Maps become path
// segments; everything else (including slices) is stored as one JSON leaf.
// A nil value produces no leaves, which deletes the path.
func encodeTree(base string, value any) ([]leaf, error) {
	generic, err := normalize(value)
	if err != nil {
		return nil, err
	}
	var out []leaf
	if err := flatten(base, generic, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize converts an arbitrary Go value into the generic JSON tree
// (map[string]any, []any, string, json.Number, bool, nil).
func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return decodeLeaf(string(b))
}

func flatten(path string, v any, out *[]leaf) error {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		if len(t) == 0 {
			*out = append(*out, leaf{path: path, value: "{}"})
			return nil
		}
		for k, child := range t {
			if k == "" || strings.Contains(k, "/") {
				return fmt.Errorf("%w: key %q under %q", ErrInvalidPath, k, path)
			}
			if err := flatten(Join(path, k), child, out); err != nil {
				return err
			}
		}
		return nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode %q: %w", path, err)
		}
		*out = append(*out, leaf{path: path, value: string(b)})
		return nil
	}
}

func decodeLeaf(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

// unflatten rebuilds the value at base from the rows found under it.
func unflatten(base string, rows []leaf) (any, bool, error) {
	if len(rows) == 0 {
		return nil, false, nil
	}
	if len(rows) == 1 && rows[0].path == base {
		v, err := decodeLeaf(rows[0].value)
		return v, err == nil, err
	}

	root := make(map[string]any)
	for _, r := range rows {
		if r.path == base {
			// A stale leaf shadowed by children; children win.
			continue
		}
		v, err := decodeLeaf(r.value)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", r.path, err)
		}
		segs := strings.Split(relative(r.path, base), "/")
		node := root
		for _, seg := range segs[:len(segs)-1] {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[seg] = next
			}
			node = next
		}
		last := segs[len(segs)-1]
		if _, isMap := node[last].(map[string]any); isMap {
			continue
		}
		node[last] = v
	}
	return root, true, nil
}

// Decode reads path and unmarshals it into dst. It reports whether the
// path existed.
func Decode(ctx context.Context, ps ProgressStore, path string, dst any) (bool, error) {
	v, ok, err := ps.Get(ctx, path)
	if err != nil || !ok {
		return ok, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return true, fmt.Errorf("re-encode %q: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return true, fmt.Errorf("decode %q: %w", path, err)
	}
	return true, nil
}

// GetString reads a string leaf.
func GetString(ctx context.Context, ps ProgressStore, path string) (string, bool, error) {
	v, ok, err := ps.Get(ctx, path)
	if err != nil || !ok {
		return "", ok, err
	}
	s, isStr := v.(string)
	if !isStr {
		return "", false, fmt.Errorf("%q holds %T, not a string", path, v)
	}
	return s, true, nil
}

// GetBool reads a boolean leaf. Missing paths read as false.
func GetBool(ctx context.Context, ps ProgressStore, path string) (bool, error) {
	v, ok, err := ps.Get(ctx, path)
	if err != nil || !ok {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// GetInt reads a numeric leaf.
func GetInt(ctx context.Context, ps ProgressStore, path string) (int64, bool, error) {
	v, ok, err := ps.Get(ctx, path)
	if err != nil || !ok {
		return 0, ok, err
	}
	n, convErr := toInt(v)
	if convErr != nil {
		return 0, false, fmt.Errorf("%q: %w", path, convErr)
	}
	return n, true, nil
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		return int64(f), err
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("holds %T, not a number", v)
	}
}
