package provider

import "context"

// Iterator provides pull-based sequential access to a sequence of values.
// Close must be called when done.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	// A value may accompany an error; ok reports whether it is usable.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Collect drains it into a slice and closes it. On error the values read so
// far, including one returned with the error, are returned too.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var out []T
	for {
		v, ok, err := it.Next(ctx)
		if ok {
			out = append(out, v)
		}
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
	}
}
