package facet

import (
	"math"
	"strconv"
	"strings"
)

// RangeValue is the value of a range facet. At least one bound is set.
type RangeValue struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Coerce converts a decoded JSON value into the declared type of the facet.
// The second result is false when the value must be dropped.
//
// Rules, keyed by declared type:
//
//	string   non-empty string; number -> decimal string
//	enum     allowed value, matched case-insensitively, returned in canonical form
//	list     array of strings or a single string; enum-checked when values are declared
//	boolean  bool; "true"/"false" in any case
//	number   number; numeric string
//	range    object with numeric min and/or max, min <= max
//
// Nothing else is guessed.
func (d Definition) Coerce(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch d.facetType {
	case String:
		return coerceString(v)
	case Enum:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return d.matchValue(s)
	case List:
		return d.coerceList(v)
	case Boolean:
		return coerceBool(v)
	case Number:
		return coerceNumber(v)
	case Range:
		return coerceRange(v)
	}
	return nil, false
}

func coerceString(v any) (any, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, false
		}
		return s, true
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
	}
	return nil, false
}

func coerceBool(v any) (any, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return nil, false
}

func coerceNumber(v any) (any, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return nil, false
}

func coerceRange(v any) (any, bool) {
	var minV, maxV any
	switch t := v.(type) {
	case RangeValue:
		if t.Min != nil {
			minV = *t.Min
		}
		if t.Max != nil {
			maxV = *t.Max
		}
	case map[string]any:
		minV, maxV = t["min"], t["max"]
	default:
		return nil, false
	}

	var out RangeValue
	if minV != nil {
		f, ok := coerceNumber(minV)
		if !ok {
			return nil, false
		}
		n := f.(float64)
		out.Min = &n
	}
	if maxV != nil {
		f, ok := coerceNumber(maxV)
		if !ok {
			return nil, false
		}
		n := f.(float64)
		out.Max = &n
	}
	if out.Min == nil && out.Max == nil {
		return nil, false
	}
	if out.Min != nil && out.Max != nil && *out.Min > *out.Max {
		return nil, false
	}
	return out, true
}

func (d Definition) coerceList(v any) (any, bool) {
	var raw []any
	switch t := v.(type) {
	case string:
		raw = []any{t}
	case []string:
		raw = make([]any, len(t))
		for i, s := range t {
			raw[i] = s
		}
	case []any:
		raw = t
	default:
		return nil, false
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		var val any
		if len(d.values) > 0 {
			val, ok = d.matchValue(s)
		} else {
			val, ok = coerceString(s)
		}
		if !ok || seen[val.(string)] {
			continue
		}
		seen[val.(string)] = true
		out = append(out, val.(string))
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// matchValue resolves s against the allowed values. Facets without declared
// values accept any non-empty string.
func (d Definition) matchValue(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if len(d.values) == 0 {
		return s, true
	}
	for _, allowed := range d.values {
		if strings.EqualFold(allowed, s) {
			return allowed, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
