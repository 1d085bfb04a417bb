package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go.pact.im/x/builder/codegen"
)

// defaultOutput is the name of the generated file in the package directory.
const defaultOutput = "builder_gen.go"

// config is the command configuration. It may be read from a YAML (or JSON)
// file and is overridden by command line flags.
type config struct {
	// Dir is the package directory.
	Dir string `yaml:"dir"`
	// Output is the output file path. An empty path means builder_gen.go
	// in Dir and "-" means standard output.
	Output string `yaml:"output"`
	// Package overrides the package name of the generated file.
	Package codegen.GoIdentifier `yaml:"package"`
	// Tags is a build constraint expression for the generated file.
	Tags string `yaml:"tags"`
	// Types lists record types in addition to those marked with the
	// derive directive.
	Types []codegen.GoIdentifier `yaml:"types"`
	// Strict rejects unrecognized builder tags on slice fields.
	Strict bool `yaml:"strict"`
	// Verbose enables development logging.
	Verbose bool `yaml:"verbose"`
}

// readConfig reads the configuration file at path into c.
func readConfig(path string, c *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// typeNames returns the requested record type names.
func (c *config) typeNames() []string {
	names := make([]string, len(c.Types))
	for i, t := range c.Types {
		names[i] = string(t)
	}
	return names
}
