package schema

import (
	"slices"
	"strings"
)

// RejectReason tells why a value was left out of a conformed mapping.
type RejectReason string

// Reject reasons.
const (
	RejectUnknown     RejectReason = "unknown_facet"
	RejectUncoercible RejectReason = "uncoercible_value"
)

// Rejection is one key dropped by Conform.
type Rejection struct {
	Key    string
	Reason RejectReason
}

// Conform keeps the keys of values declared in the schema and coerces each
// value to its declared type. Unknown keys and values that cannot be coerced
// are dropped and reported. null values are dropped silently.
func (s *Schema) Conform(values map[string]any) (map[string]any, []Rejection) {
	out := make(map[string]any, len(values))
	var rejected []Rejection
	for key, raw := range values {
		def, ok := s.Lookup(key)
		if !ok {
			rejected = append(rejected, Rejection{Key: key, Reason: RejectUnknown})
			continue
		}
		if raw == nil {
			continue
		}
		v, ok := def.Coerce(raw)
		if !ok {
			rejected = append(rejected, Rejection{Key: key, Reason: RejectUncoercible})
			continue
		}
		out[key] = v
	}
	slices.SortFunc(rejected, func(a, b Rejection) int { return strings.Compare(a.Key, b.Key) })
	return out, rejected
}
