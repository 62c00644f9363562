package comparer

import (
	"orghierarchy/src/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func IgnoreFieldsFor[T any](fields ...string) cmp.Option {
	var t T
	return cmpopts.IgnoreFields(t, fields...)
}

// QueryResultIgnoringTiming compara resultados sem olhar duração, backend
// nem a marca de cache.
func QueryResultIgnoringTiming() cmp.Option {
	return IgnoreFieldsFor[domain.QueryResult]("Duration", "Backend", "Cached")
}

// UnorderedIDs compara slices de ids como conjuntos.
func UnorderedIDs() cmp.Option {
	return cmpopts.SortSlices(func(a, b int64) bool { return a < b })
}
