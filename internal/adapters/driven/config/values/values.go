// Package values converts raw config values to the types the settings
// service reads. TOML decodes integers as int64 and YAML as int, and
// values set at runtime keep whatever type the caller used, so every
// numeric getter accepts all three.
package values

// Source is a raw key lookup.
type Source interface {
	Get(key string) (any, bool)
}

// String returns the string at key, or "" when absent or not a string.
func String(src Source, key string) string {
	v, _ := src.Get(key)
	s, _ := v.(string)
	return s
}

// Int returns the integer at key, or 0. Floats are truncated.
func Int(src Source, key string) int {
	v, _ := src.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Float returns the number at key as float64, or 0.
func Float(src Source, key string) float64 {
	v, _ := src.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Bool returns the boolean at key, or false.
func Bool(src Source, key string) bool {
	v, _ := src.Get(key)
	b, _ := v.(bool)
	return b
}
