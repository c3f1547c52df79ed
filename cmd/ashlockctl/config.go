package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunFile is an optional YAML description of a fingerprint run, an
// alternative to spelling everything out in flags.
type RunFile struct {
	Strategy    string  `yaml:"strategy"`
	Probe       string  `yaml:"probe"`
	Step        float64 `yaml:"step"`
	Turns       int     `yaml:"turns"`
	Repetitions int     `yaml:"repetitions"`
	Workers     int     `yaml:"workers"`
	Seed        int64   `yaml:"seed"`
	InMemory    bool    `yaml:"in_memory"`
}

func loadRunFile(path string) (RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunFile{}, err
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return RunFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return rf, nil
}
