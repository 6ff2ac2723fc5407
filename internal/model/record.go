package model

// Record is the outcome of decoding one entry of a cluster response: either
// a usable value or the reason it was skipped.
type Record[T any] struct {
	Value  T
	Reason string
	ok     bool
}

// Ok wraps a decoded value.
func Ok[T any](v T) Record[T] {
	return Record[T]{Value: v, ok: true}
}

// Skipped marks an entry that could not be used.
func Skipped[T any](reason string) Record[T] {
	return Record[T]{Reason: reason}
}

// IsOk reports whether the record carries a value.
func (r Record[T]) IsOk() bool {
	return r.ok
}

// Partition splits records into usable values and skip reasons, preserving order.
func Partition[T any](recs []Record[T]) (values []T, skipped []string) {
	for _, r := range recs {
		if r.IsOk() {
			values = append(values, r.Value)
		} else {
			skipped = append(skipped, r.Reason)
		}
	}
	return values, skipped
}
