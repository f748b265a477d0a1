package spec

// Endpoint is one operation extracted from an OpenAPI document.
type Endpoint struct {
	Path        string              `json:"path"`
	Method      string              `json:"method"`
	OperationID string              `json:"operation_id"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	RequestBody map[string]any      `json:"request_body,omitempty"`
	Responses   map[string]Response `json:"responses,omitempty"`
}

// Parameter is a single endpoint parameter after $ref resolution.
type Parameter struct {
	Name     string         `json:"name"`
	In       string         `json:"in"` // path, query, header, cookie
	Required bool           `json:"required"`
	Schema   map[string]any `json:"schema,omitempty"`
}

// Response describes one declared status code of an endpoint.
type Response struct {
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"` // application/json schema, resolved
	Headers     []string       `json:"headers,omitempty"`
}

// Info summarises the document for reporting.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
	Endpoints   int    `json:"endpoints"`
	SourcePath  string `json:"source_path,omitempty"`
}
