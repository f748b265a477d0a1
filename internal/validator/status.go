package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/apivet/internal/httpclient"
	"github.com/ziadkadry99/apivet/internal/spec"
)

// StatusCodeValidator checks that the observed status code is declared by
// the endpoint. Range keys like "2XX" and the "default" response are
// honoured.
type StatusCodeValidator struct{}

func (v *StatusCodeValidator) Name() string { return "status_code" }

func (v *StatusCodeValidator) Validate(resp *httpclient.Response, ep *spec.Endpoint) Result {
	result := NewResult(v.Name())

	if len(ep.Responses) == 0 {
		result.AddWarning("endpoint declares no responses", "")
		result.Message = "no declared responses to check against"
		return result
	}

	code := strconv.Itoa(resp.StatusCode)
	for declared := range ep.Responses {
		if matchesStatus(declared, code) {
			result.Message = fmt.Sprintf("status %s is declared", code)
			return result
		}
	}

	result.AddError(fmt.Sprintf("status %s not declared; expected one of %s",
		code, strings.Join(ep.ExpectedStatusCodes(), ", ")), "")
	return result
}

// matchesStatus compares an observed code against a declared response key:
// exact ("200"), range ("2XX"), or "default".
func matchesStatus(declared, code string) bool {
	if declared == "default" {
		return true
	}
	declared = strings.ToUpper(declared)
	if len(declared) == 3 && strings.HasSuffix(declared, "XX") {
		return declared[0] == code[0]
	}
	return declared == code
}
