package history

import (
	"time"

	"github.com/ziadkadry99/apivet/internal/engine"
)

// Run is one recorded validation sweep.
type Run struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	SpecTitle   string         `json:"spec_title"`
	SpecVersion string         `json:"spec_version"`
	SpecPath    string         `json:"spec_path,omitempty"`
	BaseURL     string         `json:"base_url"`
	Summary     engine.Summary `json:"summary"`
}

// QueryFilter controls which runs are returned by List.
type QueryFilter struct {
	SpecTitle string
	Since     *time.Time
	Limit     int
	Offset    int
}
