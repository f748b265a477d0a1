package validator

import (
	"fmt"
	"strconv"

	"github.com/ziadkadry99/apivet/internal/httpclient"
	"github.com/ziadkadry99/apivet/internal/spec"
)

// HeaderValidator checks that headers declared for the observed status code
// are present, and warns on common hygiene gaps.
type HeaderValidator struct{}

func (v *HeaderValidator) Name() string { return "headers" }

func (v *HeaderValidator) Validate(resp *httpclient.Response, ep *spec.Endpoint) Result {
	result := NewResult(v.Name())

	for _, name := range ep.DeclaredHeaders(strconv.Itoa(resp.StatusCode)) {
		if resp.Headers.Get(name) == "" {
			result.AddError(fmt.Sprintf("declared response header %q missing", name), "")
		}
	}

	if len(resp.Body) > 0 && resp.Headers.Get("Content-Type") == "" {
		result.AddWarning("response has a body but no Content-Type header", "")
	}

	if result.Valid && len(result.Warnings) == 0 {
		result.Message = "headers match declaration"
	}
	return result
}
