package validator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ziadkadry99/apivet/internal/httpclient"
	"github.com/ziadkadry99/apivet/internal/spec"
)

// SchemaValidator checks the response JSON against the schema the endpoint
// declares for the observed status code. Only successful (2xx) responses
// are checked; error bodies are rarely worth failing a run over.
type SchemaValidator struct{}

func (v *SchemaValidator) Name() string { return "schema" }

func (v *SchemaValidator) Validate(resp *httpclient.Response, ep *spec.Endpoint) Result {
	result := NewResult(v.Name())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Message = "skipped for non-2xx response"
		return result
	}

	schema := ep.ResponseSchema(strconv.Itoa(resp.StatusCode))
	if schema == nil {
		result.Message = "no schema declared for this response"
		return result
	}

	if !resp.IsJSON() {
		result.AddError(fmt.Sprintf("response is not JSON (content-type %q)",
			resp.Headers.Get("Content-Type")), "")
		return result
	}

	var instance any
	if err := json.Unmarshal(resp.Body, &instance); err != nil {
		result.AddError(fmt.Sprintf("invalid JSON in response: %v", err), "")
		return result
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		result.AddError(fmt.Sprintf("invalid schema in spec: %v", err), "")
		return result
	}

	if err := compiled.Validate(instance); err != nil {
		var ve *jsonschema.ValidationError
		if vErr, ok := err.(*jsonschema.ValidationError); ok {
			ve = vErr
		}
		if ve == nil {
			result.AddError(err.Error(), "")
			return result
		}
		for _, leaf := range leafCauses(ve) {
			result.AddError(leaf.Error(), instancePath(leaf))
		}
		return result
	}

	result.Message = "response validates against schema"
	return result
}

// compileSchema compiles an in-document OpenAPI schema object.
func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	// Round-trip through JSON so YAML-decoded values are in the shape the
	// compiler expects.
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("response.json")
}

// leafCauses flattens a validation error tree into its leaf causes, which
// carry the concrete failures.
func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}

// instancePath renders the instance location as a JSON-pointer-ish path.
func instancePath(ve *jsonschema.ValidationError) string {
	if len(ve.InstanceLocation) == 0 {
		return ""
	}
	return "/" + strings.Join(ve.InstanceLocation, "/")
}
