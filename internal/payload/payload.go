// Package payload provides tolerant typed reads over the heterogeneous
// string-to-value maps that arrive as signal payloads. Every rule in
// internal/fraud/rules goes through here instead of type-asserting raw
// JSON values itself.
package payload

import "strconv"

// Extractor wraps one signal's decoded JSON payload.
type Extractor struct {
	values map[string]interface{}
}

func New(values map[string]interface{}) Extractor {
	return Extractor{values: values}
}

// GetString returns the string at key, or (_, false) if the key is
// missing, null, or not representable as a string.
func (e Extractor) GetString(key string) (string, bool) {
	v, ok := e.values[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

// GetDouble tolerates a native JSON number (always float64 after
// encoding/json decode) or a numeric string; anything else falls back
// to def.
func (e Extractor) GetDouble(key string, def float64) float64 {
	v, ok := e.values[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

func (e Extractor) GetInt(key string, def int) int {
	v, ok := e.values[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(n, 64)
			if ferr != nil {
				return def
			}
			return int(f)
		}
		return int(i)
	default:
		return def
	}
}

// GetBool tolerates a native bool, or a string "true"/"1" (true) /
// "false"/"0" (false); anything else falls back to def.
func (e Extractor) GetBool(key string, def bool) bool {
	v, ok := e.values[key]
	if !ok || v == nil {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch b {
		case "true", "1":
			return true
		case "false", "0":
			return false
		default:
			return def
		}
	default:
		return def
	}
}
