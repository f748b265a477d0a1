package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONReporter writes machine-readable reports.
type JSONReporter struct {
	OutputDir string
}

// NewJSONReporter creates a JSONReporter writing into outputDir.
func NewJSONReporter(outputDir string) *JSONReporter {
	return &JSONReporter{OutputDir: outputDir}
}

// Generate writes the report and returns its path.
func (r *JSONReporter) Generate(data Data) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(r.OutputDir, fmt.Sprintf("api_validation_report_%s.json", timestamp(data.GeneratedAt)))

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling report: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
