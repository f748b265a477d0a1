package spec

import (
	"os"
	"path/filepath"
	"testing"
)

const testSpecYAML = `
openapi: 3.0.3
info:
  title: Test API
  version: 1.0.0
servers:
  - url: https://api.example.com
paths:
  /users:
    get:
      operationId: getUsers
      summary: Get all users
      responses:
        "200":
          description: Success
          headers:
            X-Request-ID:
              schema:
                type: string
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/User"
        "500":
          description: Server error
    post:
      operationId: createUser
      summary: Create a user
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/User"
      responses:
        "201":
          description: Created
  /users/{id}:
    get:
      operationId: getUser
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: Success
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/User"
        "404":
          description: Not found
components:
  schemas:
    User:
      type: object
      properties:
        id:
          type: integer
        name:
          type: string
`

func loadTestDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(testSpecYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseBaseURLAndInfo(t *testing.T) {
	doc := loadTestDoc(t)

	if got := doc.BaseURL(); got != "https://api.example.com" {
		t.Errorf("BaseURL = %q", got)
	}
	info := doc.Info()
	if info.Title != "Test API" {
		t.Errorf("Title = %q", info.Title)
	}
	if info.Version != "1.0.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Endpoints != 3 {
		t.Errorf("Endpoints = %d, want 3", info.Endpoints)
	}
}

func TestEndpointsDeterministicOrder(t *testing.T) {
	doc := loadTestDoc(t)

	eps := doc.Endpoints()
	if len(eps) != 3 {
		t.Fatalf("len(endpoints) = %d, want 3", len(eps))
	}
	// Paths sorted, then methods in fixed order within a path.
	want := []string{"GET /users", "POST /users", "GET /users/{id}"}
	for i, w := range want {
		if got := eps[i].ID(); got != w {
			t.Errorf("endpoints[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestEndpointLookup(t *testing.T) {
	doc := loadTestDoc(t)

	ep := doc.Endpoint("/users", "get")
	if ep == nil {
		t.Fatal("Endpoint returned nil")
	}
	if ep.OperationID != "getUsers" {
		t.Errorf("OperationID = %q", ep.OperationID)
	}
	if ep.Summary != "Get all users" {
		t.Errorf("Summary = %q", ep.Summary)
	}

	if doc.Endpoint("/missing", "get") != nil {
		t.Error("expected nil for unknown path")
	}
}

func TestResponseSchemaResolvesReferences(t *testing.T) {
	doc := loadTestDoc(t)

	ep := doc.Endpoint("/users", "GET")
	schema := ep.ResponseSchema("200")
	if schema == nil {
		t.Fatal("ResponseSchema returned nil")
	}
	if schema["type"] != "array" {
		t.Errorf("schema type = %v, want array", schema["type"])
	}
	items, ok := schema["items"].(map[string]any)
	if !ok {
		t.Fatalf("items not resolved: %T", schema["items"])
	}
	if items["type"] != "object" {
		t.Errorf("resolved item type = %v, want object", items["type"])
	}
	props, ok := items["properties"].(map[string]any)
	if !ok {
		t.Fatal("resolved item has no properties")
	}
	if _, ok := props["id"]; !ok {
		t.Error("resolved User schema missing id property")
	}
}

func TestParseRecursiveSchema(t *testing.T) {
	doc, err := Parse(`
openapi: 3.0.3
info:
  title: Tree API
  version: 1.0.0
paths:
  /nodes:
    get:
      responses:
        "200":
          description: Success
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Node"
components:
  schemas:
    Node:
      type: object
      properties:
        value:
          type: string
        children:
          type: array
          items:
            $ref: "#/components/schemas/Node"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ep := doc.Endpoint("/nodes", "GET")
	if ep == nil {
		t.Fatal("Endpoint returned nil")
	}
	schema := ep.ResponseSchema("200")
	if schema == nil {
		t.Fatal("ResponseSchema returned nil")
	}
	if schema["type"] != "object" {
		t.Errorf("schema type = %v, want object", schema["type"])
	}

	// The self-reference stops expanding at the revisit: the inner items
	// keep their $ref instead of recursing forever or failing the parse.
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("schema has no properties")
	}
	children, ok := props["children"].(map[string]any)
	if !ok {
		t.Fatalf("children not resolved: %T", props["children"])
	}
	items, ok := children["items"].(map[string]any)
	if !ok {
		t.Fatalf("items not a map: %T", children["items"])
	}
	if ref, _ := items["$ref"].(string); ref != "#/components/schemas/Node" {
		t.Errorf("inner items = %v, want retained $ref", items)
	}
}

func TestResolveSiblingReferences(t *testing.T) {
	doc := loadTestDoc(t)

	// Two endpoints referencing the same User schema both resolve; the
	// cycle guard only stops expansion within one reference chain.
	for _, path := range []string{"/users", "/users/{id}"} {
		ep := doc.Endpoint(path, "GET")
		schema := ep.ResponseSchema("200")
		if schema == nil {
			t.Fatalf("%s: ResponseSchema returned nil", path)
		}
		if _, ok := schema["$ref"]; ok {
			t.Errorf("%s: schema left unresolved: %v", path, schema)
		}
	}
}

func TestExpectedStatusCodes(t *testing.T) {
	doc := loadTestDoc(t)

	ep := doc.Endpoint("/users", "GET")
	codes := ep.ExpectedStatusCodes()
	if len(codes) != 2 || codes[0] != "200" || codes[1] != "500" {
		t.Errorf("codes = %v, want [200 500]", codes)
	}
}

func TestDeclaredHeaders(t *testing.T) {
	doc := loadTestDoc(t)

	ep := doc.Endpoint("/users", "GET")
	headers := ep.DeclaredHeaders("200")
	if len(headers) != 1 || headers[0] != "X-Request-ID" {
		t.Errorf("headers = %v", headers)
	}
}

func TestPathParameters(t *testing.T) {
	doc := loadTestDoc(t)

	ep := doc.Endpoint("/users/{id}", "GET")
	if ep == nil {
		t.Fatal("Endpoint returned nil")
	}
	if len(ep.Parameters) != 1 {
		t.Fatalf("len(parameters) = %d, want 1", len(ep.Parameters))
	}
	p := ep.Parameters[0]
	if p.Name != "id" || p.In != "path" || !p.Required {
		t.Errorf("parameter = %+v", p)
	}
}

func TestParseJSONInput(t *testing.T) {
	doc, err := Parse(`{
		"openapi": "3.0.3",
		"info": {"title": "JSON API", "version": "2"},
		"paths": {"/ping": {"get": {"responses": {"200": {"description": "pong"}}}}}
	}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Endpoints()) != 1 {
		t.Fatalf("len(endpoints) = %d", len(doc.Endpoints()))
	}
	if doc.Info().Title != "JSON API" {
		t.Errorf("Title = %q", doc.Info().Title)
	}
}

func TestParseRejectsGarbageAndMissingPaths(t *testing.T) {
	if _, err := Parse("{:::"); err == nil {
		t.Error("expected error for invalid input")
	}
	if _, err := Parse(`{"openapi": "3.0.3"}`); err == nil {
		t.Error("expected error for spec without paths")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	if err := os.WriteFile(path, []byte(testSpecYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Info().SourcePath != path {
		t.Errorf("SourcePath = %q", doc.Info().SourcePath)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
