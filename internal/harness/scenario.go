package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/askviz/internal/encoding"
	"github.com/roach88/askviz/internal/intent"
	"github.com/roach88/askviz/internal/planner"
	"github.com/roach88/askviz/internal/schema"
)

// Scenario is a Schema Index and the questions asked against it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario covers.
	Description string `yaml:"description"`

	// Schema describes the dataset every case is translated against.
	Schema schema.File `yaml:"schema"`

	// Cases are translated in order.
	Cases []Case `yaml:"cases"`
}

// Case is one question of a scenario.
type Case struct {
	// Question is the raw question text. It may be empty.
	Question string `yaml:"question"`

	// Chart requests a chart type ("pie", "Box Plot"). Empty means Auto.
	Chart string `yaml:"chart,omitempty"`

	// Expect lists the outcome fields to check. If nil, only the golden
	// file checks the case.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is a subset match against an Outcome. Empty fields are not
// compared.
type Expect struct {
	Intent      string `yaml:"intent,omitempty"`
	SQL         string `yaml:"sql,omitempty"`
	Explanation string `yaml:"explanation,omitempty"`

	// Fallback is a planner fallback name, or "none" for the primary branch.
	Fallback string `yaml:"fallback,omitempty"`

	Chart string `yaml:"chart,omitempty"`

	// Roles maps role names (x, y, color, size, names, values) to columns.
	Roles map[string]string `yaml:"roles,omitempty"`
}

// fallbackNone spells planner.FallbackNone in scenario files.
const fallbackNone = "none"

var (
	knownIntents = map[string]bool{
		string(intent.Aggregate):  true,
		string(intent.Filter):     true,
		string(intent.Comparison): true,
		string(intent.Trend):      true,
	}

	knownFallbacks = map[string]bool{
		fallbackNone:                       true,
		string(planner.FallbackDefault):    true,
		string(planner.FallbackSchemaSum):  true,
		string(planner.FallbackCountRows):  true,
		string(planner.FallbackSchemaPair): true,
		string(planner.FallbackSchemaDist): true,
		string(planner.FallbackSample):     true,
	}

	knownRoles = map[string]bool{
		string(encoding.RoleX):      true,
		string(encoding.RoleY):      true,
		string(encoding.RoleColor):  true,
		string(encoding.RoleSize):   true,
		string(encoding.RoleNames):  true,
		string(encoding.RoleValues): true,
	}
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "case:" vs "cases:".
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

// LoadDir loads every .yaml and .yml scenario directly inside dir, sorted
// by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if _, err := s.Schema.Index(s.Name); err != nil {
		return err
	}

	for i, c := range s.Cases {
		if err := validateCase(i, &c); err != nil {
			return err
		}
	}
	return nil
}

// validateCase validates a single case and its expectations.
func validateCase(index int, c *Case) error {
	if _, err := encoding.ParseChartType(c.Chart); err != nil {
		return fmt.Errorf("cases[%d]: %w", index, err)
	}

	e := c.Expect
	if e == nil {
		return nil
	}
	if e.Intent != "" && !knownIntents[e.Intent] {
		return fmt.Errorf("cases[%d].expect: unknown intent %q", index, e.Intent)
	}
	if e.Fallback != "" && !knownFallbacks[e.Fallback] {
		return fmt.Errorf("cases[%d].expect: unknown fallback %q", index, e.Fallback)
	}
	if e.Chart != "" {
		chart, err := encoding.ParseChartType(e.Chart)
		if err != nil {
			return fmt.Errorf("cases[%d].expect: %w", index, err)
		}
		if chart == encoding.Auto {
			return fmt.Errorf("cases[%d].expect: chart must be a concrete chart type", index)
		}
	}
	for role := range e.Roles {
		if !knownRoles[role] {
			return fmt.Errorf("cases[%d].expect: unknown role %q", index, role)
		}
	}
	return nil
}
