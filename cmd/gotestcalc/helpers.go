package main

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const httpProto = "http"

var (
	ErrInvalidScheme = errors.New("invalid URL scheme")
	ErrEmptyHost     = errors.New("empty host")
)

// validateURL validates the given URL and URL scheme.
func validateURL(rawURL string, protocol string) (*url.URL, error) {
	validURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	re := regexp.MustCompile(fmt.Sprintf("^%ss?$", protocol))

	if !re.MatchString(validURL.Scheme) {
		return nil, ErrInvalidScheme
	}

	if validURL.Host == "" {
		return nil, ErrEmptyHost
	}

	return validURL, nil
}

// normalizeBaseURL validates rawURL and drops the trailing slash so that
// endpoint paths can be appended to it.
func normalizeBaseURL(rawURL string) (string, error) {
	validURL, err := validateURL(rawURL, httpProto)
	if err != nil {
		return "", err
	}

	validURL.RawQuery = ""
	validURL.Fragment = ""

	return strings.TrimRight(validURL.String(), "/"), nil
}

func validateLogFormat(logFormat string) error {
	if _, ok := logFormatsSet[logFormat]; !ok {
		return fmt.Errorf("invalid log format: %s", logFormat)
	}

	return nil
}
