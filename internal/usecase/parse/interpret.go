package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
)

// maxReplyExcerpt bounds how much of a bad reply ends up in error messages.
const maxReplyExcerpt = 200

// Interpret decodes the model reply and conforms it to the schema.
// A reply that holds no JSON object is a domain.ErrParse. Keys missing from
// the schema and values that cannot be coerced are dropped.
func Interpret(raw string, s *schema.Schema) (domparse.Facets, error) {
	facets, _, err := interpret(raw, s)
	return facets, err
}

func interpret(raw string, s *schema.Schema) (domparse.Facets, []schema.Rejection, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v (reply: %q)", domain.ErrParse, err, excerpt(raw))
	}
	facets, rejected := s.Conform(obj)
	return domparse.Facets(facets), rejected, nil
}

var errNotObject = errors.New("reply is not a JSON object")

// decodeObject finds the JSON object in a reply. Models sometimes wrap it in
// markdown fences or surround it with prose, so the bare text, the fenced
// block and the outermost brace span are tried in that order. The first
// candidate that is valid JSON decides: anything but an object is an error.
func decodeObject(raw string) (map[string]any, error) {
	for _, candidate := range candidates(raw) {
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, errNotObject
		}
		return obj, nil
	}
	return nil, errors.New("reply is not valid JSON")
}

func candidates(raw string) []string {
	text := strings.TrimSpace(raw)
	out := []string{text}

	if fenced, ok := fencedBlock(text); ok {
		out = append(out, fenced)
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}
	return out
}

// fencedBlock returns the body of the first ``` block, preferring ```json.
func fencedBlock(text string) (string, bool) {
	const fence = "```"
	start := strings.Index(text, fence+"json")
	skip := len(fence) + len("json")
	if start < 0 {
		start = strings.Index(text, fence)
		skip = len(fence)
	}
	if start < 0 {
		return "", false
	}
	body := text[start+skip:]
	end := strings.Index(body, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

func excerpt(raw string) string {
	r := []rune(raw)
	if len(r) <= maxReplyExcerpt {
		return raw
	}
	return string(r[:maxReplyExcerpt]) + "..."
}
