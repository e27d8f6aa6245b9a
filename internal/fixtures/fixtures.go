// Package fixtures loads YAML resolver test scenarios, grounded on
// newtest.ParseScenario: read a YAML file into a typed struct, no
// validation framework, errors wrapped with the source path. A scenario
// pairs a DSL source with one or more (device id, tags, expected inputs)
// resolutions, so new corpora of real-world device definitions can be
// regression-tested without hand-writing Go literals for every binding.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a parsed resolver fixture file.
type Scenario struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"` // inline DSL text
	Cases  []Case `yaml:"cases"`
}

// Case is one (device, tags) resolution and what it must produce.
type Case struct {
	Name       string            `yaml:"name"`
	VID        string            `yaml:"vid"` // hex, e.g. "044f"
	PID        string            `yaml:"pid"`
	Tags       []string          `yaml:"tags,omitempty"`
	DeviceName string            `yaml:"device_name,omitempty"`
	Inputs     map[string]string `yaml:"inputs,omitempty"` // "iface.input" -> expected generic/explicit label
	Absent     []string          `yaml:"absent,omitempty"` // "iface.input" expected to be pruned/unresolved
}

// ParseFile reads a single YAML scenario file.
func ParseFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return &s, nil
}

// ParseDir reads every *.yaml file directly under dir.
func ParseDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures dir %s: %w", dir, err)
	}
	var scenarios []*Scenario
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		s, err := ParseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
