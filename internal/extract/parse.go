package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// ParseError reports an oracle answer that is not a JSON array.
type ParseError struct {
	Response string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable join response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseJoins decodes an oracle answer into join records.
//
// The answer must be a JSON array, optionally wrapped in a markdown code
// fence. Elements that are not objects are skipped; absent fields take
// empty values, and a bare string where a list is expected becomes a
// one-element list.
func ParseJoins(response string) ([]core.JoinRecord, error) {
	body := stripFence(response)

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(body), &elems); err != nil {
		return nil, &ParseError{Response: response, Err: err}
	}

	joins := make([]core.JoinRecord, 0, len(elems))
	for _, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}
		j := core.JoinRecord{
			File:          asString(fields["file"]),
			Type:          asString(fields["type"]),
			SourceObjects: asStrings(fields["source_objects"]),
			JoinKeys:      asStrings(fields["join_keys"]),
			Condition:     asOptional(fields["condition"]),
			JoinStyle:     asString(fields["join_style"]),
		}
		j.Normalize()
		joins = append(joins, j)
	}
	return joins, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// asString returns a JSON string's value, or the literal text of a number
// or boolean. Other shapes yield "".
func asString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(raw)
	switch trimmed[0] {
	case '{', '[':
		return ""
	}
	return string(trimmed)
}

func asOptional(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	s := asString(raw)
	return &s
}

// asStrings returns the string elements of a JSON array, or a single
// string as a one-element list.
func asStrings(raw json.RawMessage) []string {
	if isNull(raw) {
		return []string{}
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}
