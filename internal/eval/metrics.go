package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// Key is the canonical comparison form of a join.
type Key struct {
	Type    string
	Objects string
}

// String renders the key for display.
func (k Key) String() string {
	return k.Type + "(" + strings.ReplaceAll(k.Objects, keySep, ", ") + ")"
}

const keySep = "\x00"

// Canonical returns the comparison key of j.
func Canonical(j core.JoinRecord) Key {
	typ := strings.ToLower(j.Type)
	if typ == "" {
		typ = core.JoinUnknown
	}
	objects := make([]string, len(j.SourceObjects))
	for i, o := range j.SourceObjects {
		objects[i] = strings.ToLower(o)
	}
	sort.Strings(objects)
	return Key{Type: typ, Objects: strings.Join(objects, keySep)}
}

// Metrics are the aggregate scores of an evaluation.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// ExampleResult records the outcome of one example.
type ExampleResult struct {
	Name      string `json:"name"`
	Expected  int    `json:"expected"`
	Predicted int    `json:"predicted"`
	Hits      int    `json:"hits"`
	// Missed lists the expected keys absent from the prediction
	Missed []string `json:"missed,omitempty"`
}

// Report is the full outcome of an evaluation.
type Report struct {
	Metrics  Metrics         `json:"metrics"`
	Examples []ExampleResult `json:"examples"`
}

// ComputeMetrics scores predictions[i] against examples[i].
//
// Every expected join, duplicates included, is one check; a check hits
// when its key occurs anywhere in the example's prediction. Precision is
// hits over checks and recall is hits over expected joins, so the two
// coincide. Extra predicted joins are not penalised.
func ComputeMetrics(examples []Example, predictions [][]core.JoinRecord) (*Report, error) {
	if len(examples) != len(predictions) {
		return nil, fmt.Errorf("have %d examples but %d predictions", len(examples), len(predictions))
	}

	report := &Report{Examples: make([]ExampleResult, 0, len(examples))}
	var checks, expected, hits int
	for i, ex := range examples {
		predicted := make(map[Key]struct{}, len(predictions[i]))
		for _, j := range predictions[i] {
			predicted[Canonical(j)] = struct{}{}
		}

		result := ExampleResult{Name: ex.Name, Expected: len(ex.ExpectedJoins), Predicted: len(predictions[i])}
		for _, j := range ex.ExpectedJoins {
			key := Canonical(j)
			checks++
			if _, ok := predicted[key]; ok {
				result.Hits++
				continue
			}
			result.Missed = append(result.Missed, key.String())
		}
		expected += result.Expected
		hits += result.Hits
		report.Examples = append(report.Examples, result)
	}

	report.Metrics = score(hits, checks, expected)
	return report, nil
}

func score(hits, checks, expected int) Metrics {
	var m Metrics
	if checks > 0 {
		m.Precision = float64(hits) / float64(checks)
	}
	if expected > 0 {
		m.Recall = float64(hits) / float64(expected)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
