package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .apivet.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to apivet! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Base URL override.
	basePrompt := promptui.Prompt{
		Label:   "API base URL (leave blank to use the spec's servers entry)",
		Default: "",
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.BaseURL = strings.TrimSpace(baseURL)

	// 2. Report format.
	formatPrompt := promptui.Select{
		Label: "Report output format",
		Items: []string{
			"html - browsable report with summary, result tabs and foldable entries",
			"json - machine-readable report",
			"both - html and json",
		},
	}
	formatIdx, _, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("format selection: %w", err)
	}
	formats := []OutputFormat{FormatHTML, FormatJSON, FormatBoth}
	cfg.Reporting.OutputFormat = formats[formatIdx]

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Report output directory",
		Default: "reports",
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.Reporting.OutputDir = outputDir

	// 4. Endpoint filters.
	includePrompt := promptui.Prompt{
		Label:   `Endpoint include patterns, matched against "METHOD /path" (comma-separated globs, blank for all)`,
		Default: "",
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	cfg.Include = splitAndTrim(includeStr)

	excludePrompt := promptui.Prompt{
		Label:   "Endpoint exclude patterns (comma-separated globs, blank for none)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = splitAndTrim(excludeStr)

	// 5. Request timeout.
	timeoutPrompt := promptui.Prompt{
		Label:   "Read timeout in seconds",
		Default: strconv.Itoa(cfg.HTTP.ReadTimeoutSec),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	timeoutStr, err := timeoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("read timeout: %w", err)
	}
	cfg.HTTP.ReadTimeoutSec, _ = strconv.Atoi(timeoutStr)

	// 6. Strict mode.
	strictPrompt := promptui.Select{
		Label: "Strict mode (warnings fail an endpoint)",
		Items: []string{"on", "off"},
	}
	strictIdx, _, err := strictPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strict mode: %w", err)
	}
	cfg.Validation.StrictMode = strictIdx == 0

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigFile)

	return cfg, nil
}

// splitAndTrim splits a comma-separated string, trimming whitespace and
// dropping empty entries.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
