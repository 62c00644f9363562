package comparer

import (
	"bytes"
	"encoding/json"

	"github.com/google/go-cmp/cmp"
)

// JSONIgnoringKeys compara corpos JSON pela estrutura, sem olhar a ordem das
// chaves, e descarta as chaves dadas em qualquer nível (duration_ms,
// snapshot_id).
func JSONIgnoringKeys(keys ...string) cmp.Option {
	ignored := make(map[string]bool, len(keys))
	for _, key := range keys {
		ignored[key] = true
	}

	return cmp.Comparer(func(x, y json.RawMessage) bool {
		var xObj, yObj any
		if json.Unmarshal(x, &xObj) != nil || json.Unmarshal(y, &yObj) != nil {
			return bytes.Equal(x, y)
		}
		return cmp.Equal(withoutKeys(xObj, ignored), withoutKeys(yObj, ignored))
	})
}

func withoutKeys(value any, ignored map[string]bool) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			if !ignored[key] {
				out[key] = withoutKeys(inner, ignored)
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = withoutKeys(inner, ignored)
		}
		return out
	default:
		return value
	}
}
