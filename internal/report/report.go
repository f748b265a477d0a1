// Package report renders validation runs as HTML and JSON artifacts. The
// HTML report is a single self-contained page: summary plus passed/failed
// result tabs, and one foldable section per endpoint.
package report

import (
	"time"

	"github.com/ziadkadry99/apivet/internal/engine"
	"github.com/ziadkadry99/apivet/internal/spec"
)

// Data is everything a reporter needs to render one run.
type Data struct {
	Title       string                  `json:"title"`
	GeneratedAt time.Time               `json:"generated_at"`
	SpecInfo    spec.Info               `json:"spec_info"`
	Summary     engine.Summary          `json:"summary"`
	Results     []engine.EndpointResult `json:"results"`
}

// Passed returns the successful results.
func (d *Data) Passed() []engine.EndpointResult {
	return filterResults(d.Results, true)
}

// Failed returns the failed results.
func (d *Data) Failed() []engine.EndpointResult {
	return filterResults(d.Results, false)
}

func filterResults(results []engine.EndpointResult, success bool) []engine.EndpointResult {
	var out []engine.EndpointResult
	for _, r := range results {
		if r.Success == success {
			out = append(out, r)
		}
	}
	return out
}

// timestamp formats report file timestamps.
func timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
