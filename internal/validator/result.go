// Package validator checks captured HTTP responses against what the OpenAPI
// document declares for the endpoint: status code, response body schema, and
// response headers.
package validator

// Issue is a single validation error or warning.
type Issue struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"` // JSON pointer into the response body, where applicable
}

// Result carries the outcome of one validator against one response.
type Result struct {
	Name     string  `json:"name"`
	Valid    bool    `json:"valid"`
	Message  string  `json:"message,omitempty"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// NewResult returns a passing result for the named validator.
func NewResult(name string) Result {
	return Result{Name: name, Valid: true}
}

// AddError records an error and marks the result invalid.
func (r *Result) AddError(message, path string) {
	r.Errors = append(r.Errors, Issue{Message: message, Path: path})
	r.Valid = false
}

// AddWarning records a warning without failing the result.
func (r *Result) AddWarning(message, path string) {
	r.Warnings = append(r.Warnings, Issue{Message: message, Path: path})
}

// Passed reports whether the result counts as a pass. In strict mode
// warnings fail the result too.
func (r *Result) Passed(strict bool) bool {
	if !r.Valid {
		return false
	}
	if strict && len(r.Warnings) > 0 {
		return false
	}
	return true
}
