package eval

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/joinlineage/internal/testutil"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

func TestDefaultDataset(t *testing.T) {
	examples := DefaultDataset()
	require.Len(t, examples, 1)

	ex := examples[0]
	assert.Equal(t, "repo1", ex.Name)
	assert.Equal(t, "https://github.com/example/repo1", ex.Input.Repo)
	require.Len(t, ex.ExpectedJoins, 1)
	assert.Equal(t, core.JoinRecord{
		Type:          "INNER",
		SourceObjects: []string{"orders", "customers"},
		JoinKeys:      []string{"orders.customer_id = customers.id"},
		JoinStyle:     "SQL",
	}, ex.ExpectedJoins[0])
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	content := `examples:
  - input:
      repo_url: ./fixtures/shop
      branch: develop
      model: codellama
    expected_output:
      joins:
        - type: LEFT
          source_objects: [payments, orders]
  - name: no-joins
    input:
      repo_url: ./fixtures/empty
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	examples, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, examples, 2)

	assert.Equal(t, "example-1", examples[0].Name)
	assert.Equal(t, Input{Repo: "./fixtures/shop", Branch: "develop", Model: "codellama"}, examples[0].Input)
	assert.Equal(t, []string{"payments", "orders"}, examples[0].ExpectedJoins[0].SourceObjects)
	assert.Equal(t, []string{}, examples[0].ExpectedJoins[0].JoinKeys)
	assert.Nil(t, examples[0].ExpectedJoins[0].Condition)

	assert.Equal(t, "no-joins", examples[1].Name)
	assert.Equal(t, []core.JoinRecord{}, examples[1].ExpectedJoins)
}

func TestLoadDataset_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDataset(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "examples: [\n"},
		{name: "no examples", content: "examples: []\n"},
		{name: "missing repo", content: "examples:\n  - name: x\n    input: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := LoadDataset(path)
			assert.Error(t, err)
		})
	}
}

func TestEvaluate(t *testing.T) {
	examples := DefaultDataset()
	var seen []Input
	run := func(_ context.Context, in Input) ([]core.JoinRecord, error) {
		seen = append(seen, in)
		return []core.JoinRecord{join("INNER", "customers", "orders")}, nil
	}

	report, err := Evaluate(context.Background(), examples, run, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, Metrics{Precision: 1, Recall: 1, F1: 1}, report.Metrics)
	assert.Equal(t, []Input{examples[0].Input}, seen)
}

func TestEvaluate_EmptyPredictions(t *testing.T) {
	run := func(context.Context, Input) ([]core.JoinRecord, error) {
		return []core.JoinRecord{}, nil
	}

	report, err := Evaluate(context.Background(), DefaultDataset(), run, nil)
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, report.Metrics)
}

func TestEvaluate_RunFailure(t *testing.T) {
	run := func(context.Context, Input) ([]core.JoinRecord, error) {
		return nil, testutil.ErrUnavailable
	}

	_, err := Evaluate(context.Background(), DefaultDataset(), run, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, testutil.ErrUnavailable))
	assert.Contains(t, err.Error(), "example repo1")
}

func TestEvaluate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, DefaultDataset(), func(context.Context, Input) ([]core.JoinRecord, error) {
		t.Fatal("run must not be called")
		return nil, nil
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
