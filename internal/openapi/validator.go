package openapi

import (
	"context"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/pkg/errors"

	"github.com/wallarm/gotestcalc/internal/verifier/types"
)

// Validator checks responses against the operations of an OpenAPI document.
type Validator struct {
	router routers.Router
}

// NewValidator loads the OpenAPI document at location and prepares a
// validator for requests sent to any of serverURLs.
func NewValidator(ctx context.Context, location string, serverURLs ...string) (*Validator, error) {
	_, router, err := LoadOpenAPISpec(ctx, location, serverURLs...)
	if err != nil {
		return nil, err
	}

	return &Validator{router: router}, nil
}

// ValidateResponse returns an error if the request doesn't match any
// operation of the document or if the response status, headers or body
// violate that operation.
func (v *Validator) ValidateResponse(ctx context.Context, req *http.Request, resp types.Response) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return errors.Wrapf(err, "no operation for %s %s", req.Method, req.URL.Path)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: resp.GetStatusCode(),
		Header: resp.GetHeaders(),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}
	input.SetBodyBytes(resp.GetRawContent())

	if err = openapi3filter.ValidateResponse(ctx, input); err != nil {
		return err
	}

	return nil
}
