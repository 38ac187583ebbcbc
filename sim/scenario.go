// Scenario files describe a reproducible headless run: an algorithm, a list
// of tasks, and optionally a number of randomly generated ones.

package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioTask is one predefined task in a scenario file.
type ScenarioTask struct {
	PID     string `yaml:"pid"`
	Arrival int64  `yaml:"arrival"`
	Burst   int64  `yaml:"burst"`
}

// Scenario is a declarative workload for a headless run.
type Scenario struct {
	Algorithm string         `yaml:"algorithm"`
	MaxTicks  int64          `yaml:"max_ticks"` // 0 means no bound beyond completion
	Tasks     []ScenarioTask `yaml:"tasks"`
	Generate  int            `yaml:"generate"` // additional randomized tasks
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if !IsValidStrategy(sc.Algorithm) {
		return nil, fmt.Errorf("%w: scenario algorithm %q", ErrInvalidArgument, sc.Algorithm)
	}
	if len(sc.Tasks) == 0 && sc.Generate <= 0 {
		return nil, fmt.Errorf("%w: scenario has no tasks", ErrInvalidArgument)
	}
	return &sc, nil
}

// RunScenario loads the scenario's tasks into the engine and steps the
// simulation synchronously until it finishes or maxTicks elapse.
// Returns the number of ticks executed.
func (e *Engine) RunScenario(sc *Scenario) (int64, error) {
	for _, st := range sc.Tasks {
		if err := e.AddTask(st.PID, st.Arrival, st.Burst); err != nil {
			return 0, err
		}
	}
	if sc.Generate > 0 {
		if _, err := e.Generate(sc.Generate); err != nil {
			return 0, err
		}
	}
	if err := e.Start(sc.Algorithm); err != nil {
		return 0, err
	}

	var steps int64
	for !e.Finished() {
		if sc.MaxTicks > 0 && steps >= sc.MaxTicks {
			e.Pause()
			break
		}
		e.Step()
		steps++
	}
	return steps, nil
}
