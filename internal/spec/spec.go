// Package spec parses OpenAPI 3 documents into the endpoint descriptors the
// validation engine drives requests from. Both JSON and YAML documents are
// accepted; local component references are resolved in place.
package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// httpMethods are the operation keys recognised inside a path item.
var httpMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// Document is a parsed OpenAPI specification.
type Document struct {
	raw        map[string]any
	endpoints  []Endpoint
	info       Info
	sourcePath string
}

// Load reads and parses an OpenAPI document from disk.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec %s: %w", path, err)
	}
	doc, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing spec %s: %w", path, err)
	}
	doc.sourcePath = path
	doc.info.SourcePath = path
	return doc, nil
}

// Parse parses an OpenAPI document from its raw content. JSON is tried
// first, then YAML.
func Parse(content string) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
			return nil, fmt.Errorf("not valid JSON or YAML")
		}
		raw = normalizeYAML(raw)
	}

	doc := &Document{raw: raw}
	if err := doc.extract(); err != nil {
		return nil, err
	}
	return doc, nil
}

// extract walks the paths object and builds the endpoint list.
func (d *Document) extract() error {
	paths, ok := d.raw["paths"].(map[string]any)
	if !ok || len(paths) == 0 {
		return fmt.Errorf("no paths found in OpenAPI spec")
	}

	// Sort paths for deterministic output.
	pathKeys := make([]string, 0, len(paths))
	for k := range paths {
		pathKeys = append(pathKeys, k)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		pathItem, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range httpMethods {
			op, ok := pathItem[method].(map[string]any)
			if !ok {
				continue
			}
			ep, err := d.buildEndpoint(path, method, op)
			if err != nil {
				return fmt.Errorf("endpoint %s %s: %w", strings.ToUpper(method), path, err)
			}
			d.endpoints = append(d.endpoints, ep)
		}
	}

	d.info = d.buildInfo()
	return nil
}

func (d *Document) buildEndpoint(path, method string, op map[string]any) (Endpoint, error) {
	ep := Endpoint{
		Path:        path,
		Method:      strings.ToUpper(method),
		OperationID: fmt.Sprintf("%s_%s", method, path),
	}

	if id, ok := op["operationId"].(string); ok && id != "" {
		ep.OperationID = id
	}
	if s, ok := op["summary"].(string); ok {
		ep.Summary = s
	}
	if desc, ok := op["description"].(string); ok {
		ep.Description = desc
	}
	if tags, ok := op["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				ep.Tags = append(ep.Tags, s)
			}
		}
	}

	if params, ok := op["parameters"].([]any); ok {
		for _, p := range params {
			pm, ok := p.(map[string]any)
			if !ok {
				continue
			}
			resolved, err := d.resolveValue(pm)
			if err != nil {
				return ep, err
			}
			pm, ok = resolved.(map[string]any)
			if !ok {
				continue
			}
			param := Parameter{}
			param.Name, _ = pm["name"].(string)
			param.In, _ = pm["in"].(string)
			param.Required, _ = pm["required"].(bool)
			if schema, ok := pm["schema"].(map[string]any); ok {
				param.Schema = schema
			}
			if param.Name != "" {
				ep.Parameters = append(ep.Parameters, param)
			}
		}
	}

	if body, ok := op["requestBody"].(map[string]any); ok {
		resolved, err := d.resolveValue(body)
		if err != nil {
			return ep, err
		}
		if bm, ok := resolved.(map[string]any); ok {
			ep.RequestBody = bm
		}
	}

	if responses, ok := op["responses"].(map[string]any); ok {
		ep.Responses = make(map[string]Response, len(responses))
		for code, r := range responses {
			rm, ok := r.(map[string]any)
			if !ok {
				continue
			}
			resolved, err := d.resolveValue(rm)
			if err != nil {
				return ep, err
			}
			rm, ok = resolved.(map[string]any)
			if !ok {
				continue
			}
			resp := Response{}
			resp.Description, _ = rm["description"].(string)
			resp.Schema = d.jsonSchemaOf(rm)
			if headers, ok := rm["headers"].(map[string]any); ok {
				for name := range headers {
					resp.Headers = append(resp.Headers, name)
				}
				sort.Strings(resp.Headers)
			}
			ep.Responses[code] = resp
		}
	}

	return ep, nil
}

// jsonSchemaOf pulls the application/json schema out of a response object,
// resolving any reference it carries.
func (d *Document) jsonSchemaOf(response map[string]any) map[string]any {
	content, ok := response["content"].(map[string]any)
	if !ok {
		return nil
	}
	for mediaType, mt := range content {
		if !strings.Contains(strings.ToLower(mediaType), "json") {
			continue
		}
		mtm, ok := mt.(map[string]any)
		if !ok {
			continue
		}
		schema, ok := mtm["schema"].(map[string]any)
		if !ok {
			continue
		}
		resolved, err := d.resolveValue(schema)
		if err != nil {
			return schema
		}
		if sm, ok := resolved.(map[string]any); ok {
			return sm
		}
	}
	return nil
}

func (d *Document) buildInfo() Info {
	info := Info{BaseURL: d.BaseURL(), Endpoints: len(d.endpoints)}
	if im, ok := d.raw["info"].(map[string]any); ok {
		info.Title, _ = im["title"].(string)
		info.Version, _ = im["version"].(string)
		info.Description, _ = im["description"].(string)
	}
	return info
}

// Endpoints returns all operations in deterministic order.
func (d *Document) Endpoints() []Endpoint {
	return d.endpoints
}

// Endpoint returns the operation for the given path and method, or nil.
func (d *Document) Endpoint(path, method string) *Endpoint {
	method = strings.ToUpper(method)
	for i := range d.endpoints {
		if d.endpoints[i].Path == path && d.endpoints[i].Method == method {
			return &d.endpoints[i]
		}
	}
	return nil
}

// BaseURL returns the first server URL declared by the document, or "".
func (d *Document) BaseURL() string {
	servers, ok := d.raw["servers"].([]any)
	if !ok || len(servers) == 0 {
		return ""
	}
	sm, ok := servers[0].(map[string]any)
	if !ok {
		return ""
	}
	url, _ := sm["url"].(string)
	return url
}

// Info returns the document summary.
func (d *Document) Info() Info {
	return d.info
}

// ExpectedStatusCodes returns the status codes declared for an endpoint.
// The OpenAPI "default" response is excluded; it matches anything.
func (e *Endpoint) ExpectedStatusCodes() []string {
	codes := make([]string, 0, len(e.Responses))
	for code := range e.Responses {
		if code == "default" {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ResponseSchema returns the JSON schema declared for the given status code,
// falling back to the "default" response. Nil when neither declares one.
func (e *Endpoint) ResponseSchema(statusCode string) map[string]any {
	if r, ok := e.Responses[statusCode]; ok && r.Schema != nil {
		return r.Schema
	}
	if r, ok := e.Responses["default"]; ok {
		return r.Schema
	}
	return nil
}

// DeclaredHeaders returns the response headers declared for a status code.
func (e *Endpoint) DeclaredHeaders(statusCode string) []string {
	if r, ok := e.Responses[statusCode]; ok {
		return r.Headers
	}
	return nil
}

// ID returns a stable identifier like "GET /pets/{id}" used as the key for
// filtering, history rows, and report collapsibles.
func (e *Endpoint) ID() string {
	return e.Method + " " + e.Path
}

// normalizeYAML converts map[any]any values produced by YAML decoding into
// map[string]any so the rest of the package can treat both input formats
// uniformly.
func normalizeYAML(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeYAMLValue(v)
	}
	return m
}

func normalizeYAMLValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeYAML(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[fmt.Sprint(k)] = normalizeYAMLValue(inner)
		}
		return out
	case []any:
		for i, inner := range val {
			val[i] = normalizeYAMLValue(inner)
		}
		return val
	default:
		return v
	}
}
