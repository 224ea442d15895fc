package core

// Standard join type values. Extraction passes through whatever the
// oracle reports, so these are the common spellings rather than a closed set.
const (
	JoinInner   = "INNER"
	JoinLeft    = "LEFT"
	JoinRight   = "RIGHT"
	JoinFull    = "FULL"
	JoinCross   = "CROSS"
	JoinUnknown = "unknown"
)

// Join style values.
const (
	StyleSQL       = "SQL"
	StyleDataFrame = "DataFrame"
)

// JoinRecord describes one join operation found in the corpus.
// Field names and casing of the JSON form are part of the output contract.
type JoinRecord struct {
	// File is the source file the join was reported in
	File string `json:"file" yaml:"file,omitempty"`
	// Type is the join kind (INNER, LEFT, ..., or "unknown")
	Type string `json:"type" yaml:"type"`
	// SourceObjects are the table/alias operands. Order is kept for display
	// but does not participate in comparison.
	SourceObjects []string `json:"source_objects" yaml:"source_objects"`
	// JoinKeys are the key expressions, as reported
	JoinKeys []string `json:"join_keys" yaml:"join_keys,omitempty"`
	// Condition is the raw join condition, nil when not reported
	Condition *string `json:"condition" yaml:"condition,omitempty"`
	// JoinStyle is SQL or DataFrame
	JoinStyle string `json:"join_style" yaml:"join_style,omitempty"`
}

// Normalize replaces nil slices with empty ones so the record always
// serializes its list fields as arrays.
func (j *JoinRecord) Normalize() {
	if j.SourceObjects == nil {
		j.SourceObjects = []string{}
	}
	if j.JoinKeys == nil {
		j.JoinKeys = []string{}
	}
}

// Dedupe returns names with duplicates removed, keeping first occurrences
// in their original order. The result is never nil.
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
