package types

import (
	"context"
	"net/http"
)

var _ Request = (*GoHTTPRequest)(nil)

// Request interface represents a prepared request of a specific client type.
type Request interface {
	// IsRequest is a dummy method to tag a struct
	// as implementing a Request interface.
	IsRequest()
}

// GoHTTPRequest is a type wrapper for the *http.Request.
type GoHTTPRequest struct {
	Req *http.Request
}

func (r *GoHTTPRequest) IsRequest() {}

// NewGetRequest prepares a GET request to the given URL.
func NewGetRequest(ctx context.Context, targetURL string) (*GoHTTPRequest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}

	return &GoHTTPRequest{Req: req}, nil
}
