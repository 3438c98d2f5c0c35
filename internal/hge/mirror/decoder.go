package mirror

import "encoding/json"

// Decoder turns a downloaded body into mirror content.
type Decoder[T any] func(data []byte) (T, error)

// JSON decodes the body as-is.
func JSON[T any]() Decoder[T] {
	return func(data []byte) (T, error) {
		var v T
		err := json.Unmarshal(data, &v)
		return v, err
	}
}

// Transformed decodes the body as R and converts it with transform.
// The transform runs once per download; content read back from disk is
// already in its transformed shape.
func Transformed[R, T any](transform func(R) (T, error)) Decoder[T] {
	return func(data []byte) (T, error) {
		var raw R
		if err := json.Unmarshal(data, &raw); err != nil {
			var zero T
			return zero, err
		}
		return transform(raw)
	}
}
