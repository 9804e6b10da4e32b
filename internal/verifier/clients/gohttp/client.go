package gohttp

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wallarm/gotestcalc/internal/config"
	"github.com/wallarm/gotestcalc/internal/helpers"
	"github.com/wallarm/gotestcalc/internal/verifier/clients"
	"github.com/wallarm/gotestcalc/internal/verifier/types"
)

// maxBodySize is the largest response body that is accepted.
const maxBodySize = 1 << 20

var _ clients.HTTPClient = (*Client)(nil)

type Client struct {
	client     *http.Client
	headers    map[string]string
	hostHeader string
}

func NewClient(cfg *config.Config) (*Client, error) {
	tr := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: !cfg.TLSVerify},
		IdleConnTimeout:     time.Duration(cfg.IdleConnTimeout) * time.Second,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns, // net.http hardcodes DefaultMaxIdleConnsPerHost to 2!
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't parse proxy URL")
		}

		tr.Proxy = http.ProxyURL(proxyURL)
	}

	maxRedirects := cfg.MaxRedirects

	client := &http.Client{
		Transport: tr,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// if maxRedirects is equal to 0 then tell the HTTP client to use
			// the first HTTP response (disable following redirects)
			if maxRedirects == 0 {
				return http.ErrUseLastResponse
			}

			if len(via) > maxRedirects {
				return errors.New("max redirect number exceeded")
			}

			return nil
		},
	}

	configuredHeaders := helpers.DeepCopyMap(cfg.HTTPHeaders)
	customHeader := strings.SplitN(cfg.AddHeader, ":", 2)
	if len(customHeader) > 1 {
		header := strings.TrimSpace(customHeader[0])
		value := strings.TrimSpace(customHeader[1])
		configuredHeaders[header] = value
	}

	// viper lowercases the keys of the headers map from the config file
	var hostHeader string
	for header, value := range configuredHeaders {
		if strings.EqualFold(header, "Host") {
			hostHeader = value
		}
	}

	return &Client{
		client:     client,
		headers:    configuredHeaders,
		hostHeader: hostHeader,
	}, nil
}

func (c *Client) SendRequest(ctx context.Context, req types.Request) (types.Response, error) {
	r, ok := req.(*types.GoHTTPRequest)
	if !ok {
		return nil, errors.Errorf("bad request type: %T, expected %T", req, &types.GoHTTPRequest{})
	}

	r.Req = r.Req.WithContext(ctx)

	for header, value := range c.headers {
		if strings.EqualFold(header, "Host") {
			continue
		}
		r.Req.Header.Set(header, value)
	}
	if c.hostHeader != "" {
		r.Req.Host = c.hostHeader
	}

	resp, err := c.client.Do(r.Req)
	if err != nil {
		return nil, errors.Wrap(err, "sending http request")
	}

	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	if len(bodyBytes) > maxBodySize {
		return nil, errors.Errorf("response body exceeds %d bytes", maxBodySize)
	}

	content, err := decodeBody(bodyBytes, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	reasonIndex := strings.Index(resp.Status, " ")
	reason := resp.Status[reasonIndex+1:]

	response := &types.ResponseMeta{
		StatusCode:   resp.StatusCode,
		StatusReason: reason,
		Headers:      resp.Header,
		Content:      content,
		RawContent:   bodyBytes,
	}

	return response, nil
}
