package validator

import (
	"github.com/ziadkadry99/apivet/internal/httpclient"
	"github.com/ziadkadry99/apivet/internal/spec"
)

// Validator checks one aspect of a response against the endpoint's
// declaration.
type Validator interface {
	Name() string
	Validate(resp *httpclient.Response, ep *spec.Endpoint) Result
}

// All returns the standard validator set in evaluation order.
func All() []Validator {
	return []Validator{
		&StatusCodeValidator{},
		&SchemaValidator{},
		&HeaderValidator{},
	}
}
