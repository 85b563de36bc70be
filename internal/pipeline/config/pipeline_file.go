package config

import (
	"fmt"
	"os"

	"dataprep/internal/pipeline/domain/model"

	"gopkg.in/yaml.v3"
)

// PipelineFile is the on-disk description of a cleaning pipeline.
type PipelineFile struct {
	Steps []model.StepSpec `yaml:"steps"`
}

// LoadPipelineFile reads and validates a pipeline YAML file.
func LoadPipelineFile(path string) (*PipelineFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file %q: %w", path, err)
	}
	return ParsePipelineFile(data)
}

// ParsePipelineFile decodes a pipeline definition from YAML.
func ParsePipelineFile(data []byte) (*PipelineFile, error) {
	var file PipelineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline file: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("pipeline file defines no steps")
	}
	for i, step := range file.Steps {
		if step.Step == "" {
			return nil, fmt.Errorf("pipeline step %d has no name", i)
		}
	}
	return &file, nil
}
