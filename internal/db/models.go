package db

import (
	"time"

	"github.com/wallarm/gotestcalc/internal/config"
	"github.com/wallarm/gotestcalc/internal/helpers"
)

const calcPathPrefix = "calc"

const (
	VerdictPassed  = "passed"
	VerdictFailed  = "failed"
	VerdictErrored = "errored"
)

// Expectation is the outcome a check asserts against. A nil Body means that
// only the status code is compared.
type Expectation struct {
	Status int     `yaml:"status" validate:"min=100,max=599"`
	Body   *string `yaml:"body"`
}

// Case describes a single endpoint check:
// GET <base URL>/calc/<operation>/<operands...>.
type Case struct {
	Target    string      `yaml:"target" validate:"oneof=primary mock"`
	Operation string      `yaml:"operation" validate:"required,printascii,excludesall=/?#"`
	Operands  []string    `yaml:"operands" validate:"dive,required,printascii"`
	Expect    Expectation `yaml:"expect"`

	Set  string `yaml:"-" validate:"required,printascii"`
	Name string `yaml:"-" validate:"required,printascii"`
}

// PathSegments returns the unescaped segments of the endpoint path.
func (c *Case) PathSegments() []string {
	segments := make([]string, 0, len(c.Operands)+2)
	segments = append(segments, calcPathPrefix, c.Operation)
	segments = append(segments, c.Operands...)

	return segments
}

// URL resolves the endpoint path of the case against the base URL that the
// config assigns to its target.
func (c *Case) URL(cfg *config.Config) (string, error) {
	return helpers.JoinURL(cfg.BaseURL(c.Target), c.PathSegments()...)
}

// Hash returns a stable identifier of the case definition.
func (c *Case) Hash() string {
	return helpers.HexOfHashOfCheckIdentifier(c.Set, c.Name, c.Target, c.Operation, c.Operands...)
}

// Info is the result of a single check.
type Info struct {
	Set    string
	Case   string
	Target string
	URL    string

	ExpectedStatus int
	ExpectedBody   *string

	StatusCode int
	Body       string
	Duration   time.Duration

	Verdict string
	Reasons []string
}
