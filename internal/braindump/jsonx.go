package braindump

import (
	"encoding/json"
	"regexp"
	"strings"

	"braindump/internal/errors"
)

// Fenced code blocks, with or without a json language tag. The json-tagged
// form is tried first; trailing prose after a fence is ignored because only
// the capture group is parsed.
var (
	fencedJSONPattern = regexp.MustCompile("(?is)```json\\s*(.*?)```")
	fencedAnyPattern  = regexp.MustCompile("(?is)```\\s*(.*?)```")
)

// ExtractJSON pulls a JSON value out of a free-form model reply.
//
// Strategy: a fenced code block wins (json-tagged first, then any fence); when
// a fence matches, only its content is parsed — a malformed fence is a parse
// failure, not a reason to fall through. Without a fence, the slice between
// the first '{' and the last '}' is parsed. This is the highest-leverage
// correctness boundary in the pipeline, so it stays a named function with its
// own test suite.
func ExtractJSON(text string) (any, error) {
	capture := ""
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		capture = m[1]
	} else if m := fencedAnyPattern.FindStringSubmatch(text); m != nil {
		capture = m[1]
	}

	if strings.TrimSpace(capture) != "" {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(capture)), &v); err != nil {
			return nil, errors.NewParseFailure("invalid JSON in fenced block: " + err.Error())
		}
		return v, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var v any
		if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
			return nil, errors.NewParseFailure("invalid JSON object in reply: " + err.Error())
		}
		return v, nil
	}

	return nil, errors.NewParseFailure("no JSON object found in model response")
}

// asObject narrows an extracted value to an object, returning an empty map
// for non-object values so field lookups degrade to defaults.
func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}
