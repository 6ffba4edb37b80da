package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a point dataset, a query
// document, and the expected result.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Points is the dataset the query runs against.
	Points []ScenarioPoint `yaml:"points"`

	// Document is the query-specification JSON, embedded verbatim so the
	// scenario exercises the full wire path (schema validation included).
	Document string `yaml:"document"`

	// Expect specifies the expected evaluation result.
	Expect ExpectClause `yaml:"expect"`

	// RunToken is an optional fixed run token for deterministic logs.
	// If empty, defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// Parallelism bounds the evaluator's goroutine count. Zero means
	// sequential.
	Parallelism int `yaml:"parallelism,omitempty"`
}

// ScenarioPoint is one dataset point in scenario YAML.
type ScenarioPoint struct {
	ID       int64   `yaml:"id"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Group    int64   `yaml:"group"`
	Category int64   `yaml:"category"`
}

// ExpectClause specifies the expected evaluation outcome.
// Exactly one of IDs or Error must be set; an empty ids list is written
// as `ids: []`.
type ExpectClause struct {
	// IDs lists the expected point ids in output order.
	IDs []int64 `yaml:"ids"`

	// Error is a substring the evaluation error must contain. When set,
	// the scenario expects evaluation to fail.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and coherent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Document == "" {
		return fmt.Errorf("document is required")
	}

	seen := make(map[int64]struct{}, len(s.Points))
	for i, p := range s.Points {
		if p.ID <= 0 {
			return fmt.Errorf("points[%d]: id must be positive", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("points[%d]: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	if s.Expect.Error != "" && s.Expect.IDs != nil {
		return fmt.Errorf("expect: ids and error are mutually exclusive")
	}
	if s.Expect.Error == "" && s.Expect.IDs == nil {
		return fmt.Errorf("expect: ids is required (use [] for an empty result)")
	}
	for _, id := range s.Expect.IDs {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("expect: id %d not present in points", id)
		}
	}

	if s.Parallelism < 0 {
		return fmt.Errorf("parallelism must be non-negative")
	}

	return nil
}
