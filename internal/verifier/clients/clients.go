package clients

import (
	"context"

	"github.com/wallarm/gotestcalc/internal/verifier/types"
)

// HTTPClient is an interface that defines methods for sending HTTP requests.
type HTTPClient interface {
	// SendRequest sends a prepared request and reads the whole response.
	SendRequest(ctx context.Context, req types.Request) (types.Response, error)
}
