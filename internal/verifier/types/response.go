package types

import (
	"net/http"
)

var _ Response = (*ResponseMeta)(nil)

// Response interface contains general methods for retrieving response info.
type Response interface {
	// GetStatusCode returns response status code.
	GetStatusCode() int

	// GetReason return response status message
	// corresponding to the HTTP status code.
	GetReason() string

	// GetHeaders returns response headers.
	GetHeaders() http.Header

	// GetContent returns response content body decoded to UTF-8.
	GetContent() []byte

	// GetRawContent returns response content body as received.
	GetRawContent() []byte
}

// ResponseMeta holds a fully read response.
type ResponseMeta struct {
	StatusCode   int
	StatusReason string
	Headers      http.Header
	Content      []byte
	RawContent   []byte
}

func (r *ResponseMeta) GetStatusCode() int {
	return r.StatusCode
}

func (r *ResponseMeta) GetReason() string {
	return r.StatusReason
}

func (r *ResponseMeta) GetHeaders() http.Header {
	return r.Headers
}

func (r *ResponseMeta) GetContent() []byte {
	return r.Content
}

func (r *ResponseMeta) GetRawContent() []byte {
	return r.RawContent
}
