package eval

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// Input identifies what a single example runs the pipeline on.
type Input struct {
	Repo   string `yaml:"repo_url" json:"repo_url"`
	Branch string `yaml:"branch,omitempty" json:"branch,omitempty"`
	Model  string `yaml:"model,omitempty" json:"model,omitempty"`
}

// Example is one labelled repository.
type Example struct {
	Name          string
	Input         Input
	ExpectedJoins []core.JoinRecord
}

type datasetFile struct {
	Examples []datasetExample `yaml:"examples"`
}

type datasetExample struct {
	Name           string `yaml:"name"`
	Input          Input  `yaml:"input"`
	ExpectedOutput struct {
		Joins []core.JoinRecord `yaml:"joins"`
	} `yaml:"expected_output"`
}

//go:embed testdata/default.yaml
var defaultDataset []byte

// DefaultDataset returns the built-in examples.
func DefaultDataset() []Example {
	examples, err := ParseDataset(defaultDataset)
	if err != nil {
		panic(fmt.Sprintf("built-in dataset: %v", err))
	}
	return examples
}

// LoadDataset reads examples from a YAML file.
func LoadDataset(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	examples, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return examples, nil
}

// ParseDataset decodes a YAML dataset. Every example needs a repo_url;
// unnamed examples are named after their position.
func ParseDataset(data []byte) ([]Example, error) {
	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(file.Examples) == 0 {
		return nil, fmt.Errorf("dataset has no examples")
	}

	examples := make([]Example, 0, len(file.Examples))
	for i, raw := range file.Examples {
		name := raw.Name
		if name == "" {
			name = fmt.Sprintf("example-%d", i+1)
		}
		if raw.Input.Repo == "" {
			return nil, fmt.Errorf("example %s: input.repo_url is required", name)
		}
		joins := raw.ExpectedOutput.Joins
		if joins == nil {
			joins = []core.JoinRecord{}
		}
		for j := range joins {
			joins[j].Normalize()
		}
		examples = append(examples, Example{Name: name, Input: raw.Input, ExpectedJoins: joins})
	}
	return examples, nil
}
