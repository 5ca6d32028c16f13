package codec

import (
	"fmt"
	"math"
	"time"
)

// Payload values arrive as int before a round trip through the wire format,
// and as int64 or float64 after one.

func getString(data map[string]any, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func getInt(data map[string]any, key string) (int, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("field %q: %v is not an integer", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("field %q: expected number, got %T", key, v)
	}
}

func getTime(data map[string]any, key string) (*time.Time, error) {
	s, err := getString(data, key)
	if err != nil || s == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	t = t.UTC()
	return &t, nil
}

func putTime(data map[string]any, key string, t *time.Time) {
	if t == nil {
		return
	}
	data[key] = t.UTC().Format(time.RFC3339Nano)
}
