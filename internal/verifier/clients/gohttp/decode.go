package gohttp

import (
	"bytes"
	"io"
	"mime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeBody converts the body to UTF-8. The charset parameter of the
// Content-Type header is honoured; without it the body is taken as UTF-8.
// A leading UTF-8 BOM is dropped in both cases.
func decodeBody(body []byte, contentType string) ([]byte, error) {
	var r io.Reader = bytes.NewReader(body)

	if contentType != "" {
		_, params, err := mime.ParseMediaType(contentType)
		if err == nil {
			label := strings.TrimSpace(params["charset"])
			if label != "" && !strings.EqualFold(label, "utf-8") && !strings.EqualFold(label, "utf8") {
				enc, name := charset.Lookup(label)
				if enc == nil {
					return nil, errors.Errorf("unsupported charset: %s", label)
				}

				if name != "utf-8" {
					r = transform.NewReader(r, enc.NewDecoder())
				}
			}
		}
	}

	decoded, err := io.ReadAll(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, errors.Wrap(err, "couldn't decode response body")
	}

	return decoded, nil
}
