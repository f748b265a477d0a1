package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CaseData provides concrete values for one endpoint: path parameters,
// query parameters, request headers, and a JSON body. Keys in the test data
// file are endpoint ids ("METHOD /path").
type CaseData struct {
	PathParams map[string]string `yaml:"path_params" json:"path_params,omitempty"`
	Query      map[string]string `yaml:"params" json:"params,omitempty"`
	Headers    map[string]string `yaml:"headers" json:"headers,omitempty"`
	JSON       any               `yaml:"json" json:"json,omitempty"`
}

// TestData maps endpoint ids to their request values.
type TestData map[string]CaseData

// LoadTestData reads a YAML test data file. A missing path returns an empty
// map so callers don't special-case it.
func LoadTestData(path string) (TestData, error) {
	if path == "" {
		return TestData{}, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test data %s: %w", path, err)
	}
	var data TestData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parsing test data %s: %w", path, err)
	}
	if data == nil {
		data = TestData{}
	}
	return data, nil
}
