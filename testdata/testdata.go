// Package testdata loads the YAML conformance suites exercised by the
// engine tests. Cases describe decoded document trees, so the structural
// suite runs against the document member source.
package testdata

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed cases/*.yaml
var files embed.FS

// ComparisonCase is one structural comparison scenario.
type ComparisonCase struct {
	Name     string `yaml:"name"`
	Expected any    `yaml:"expected"`
	Actual   any    `yaml:"actual"`
	Match    bool   `yaml:"match"`
	// Path is the expected mismatch location, empty when Match is true or
	// the location is not asserted.
	Path string `yaml:"path"`
	// Missing names a member expected to be reported as missing.
	Missing string `yaml:"missing"`
}

// MembershipCase is one collection reconciliation scenario.
type MembershipCase struct {
	Name     string `yaml:"name"`
	Op       string `yaml:"op"` // atLeast, exactly or only
	Haystack []any  `yaml:"haystack"`
	Expected []any  `yaml:"expected"`
	Found    bool   `yaml:"found"`
	Missing  []any  `yaml:"missing"`
	Excess   []any  `yaml:"excess"`
	Index    *int   `yaml:"index"`
}

// ComparisonCases returns the structural conformance suite.
func ComparisonCases() ([]ComparisonCase, error) {
	var cases []ComparisonCase
	if err := load("cases/structural.yaml", &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// MembershipCases returns the collection conformance suite.
func MembershipCases() ([]MembershipCase, error) {
	var cases []MembershipCase
	if err := load("cases/membership.yaml", &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func load(name string, into any) error {
	buf, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(buf, into); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
