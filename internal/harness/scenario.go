package harness

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/roach88/rpncalc/internal/engine"
)

// Scenario is a scripted calculator session with expected outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Stack is the named stack the session opens. Defaults to "default".
	Stack string `yaml:"stack,omitempty"`

	// MemorySlots sizes the memory bank. Zero means the engine default.
	MemorySlots int `yaml:"memory_slots,omitempty"`

	// Rolls are the draws returned by the random source, in order.
	// The sequence wraps when exhausted.
	Rolls []int `yaml:"rolls,omitempty"`

	// Setup seeds the stored stack before the session opens.
	Setup Setup `yaml:"setup,omitempty"`

	// Steps are the input lines, one per command.
	Steps []Step `yaml:"steps"`

	// Expect is checked after the last step.
	Expect Expect `yaml:"expect,omitempty"`
}

// Setup holds stack contents in push order (last value on top).
type Setup struct {
	Primary   []float64 `yaml:"primary,omitempty"`
	Secondary []float64 `yaml:"secondary,omitempty"`
}

// Step is one line of input and its expected error code.
// An empty Error means the line must succeed.
type Step struct {
	Input string `yaml:"input"`
	Error string `yaml:"error,omitempty"`
}

// Expect describes the final state. Nil stacks are not checked.
type Expect struct {
	Primary   *[]float64 `yaml:"primary,omitempty"`
	Secondary *[]float64 `yaml:"secondary,omitempty"`

	// Report lines that must each appear somewhere in the session's reports.
	Report []string `yaml:"report,omitempty"`
}

var knownCodes = map[string]bool{
	string(engine.ErrCodeInsufficientDepth): true,
	string(engine.ErrCodeIndexOutOfRange):   true,
	string(engine.ErrCodeMalformedArgument): true,
	string(engine.ErrCodeEmptyMemorySlot):   true,
	string(engine.ErrCodeUndoExhausted):     true,
	string(engine.ErrCodeUnrecognizedInput): true,
	string(engine.ErrCodeStorage):           true,
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(fs afero.Fs, path string) (*Scenario, error) {
	data, err := afero.ReadFile(fs, path)
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

// FindScenarios returns the .yaml and .yml files in dir, sorted.
func FindScenarios(fs afero.Fs, dir string) ([]string, error) {
	isDir, err := afero.IsDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("scenario directory %s: %w", dir, err)
	}
	if !isDir {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := afero.Glob(fs, filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.MemorySlots < 0 {
		return fmt.Errorf("memory_slots must be non-negative")
	}

	for i, step := range s.Steps {
		if step.Error != "" && !knownCodes[step.Error] {
			return fmt.Errorf("steps[%d]: unknown error code %q", i, step.Error)
		}
	}

	return nil
}
