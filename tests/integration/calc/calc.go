package calc

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/wallarm/gotestcalc/tests/integration/config"
)

const pathPrefix = "/calc/"

var _ http.Handler = &Calc{}

// Calc is an in-process calculator service. Integer operands give integer
// results, division always gives a float with at least one decimal place
// and division by zero is answered with 406 Not Acceptable.
type Calc struct {
	errChan   chan<- error
	endpoints *config.EndpointsMap
	server    *httptest.Server

	// Delay is applied before every response.
	Delay time.Duration
	// IntegerDivision makes divide return "7" instead of "7.0".
	IntegerDivision bool
	// DivideByZeroStatus overrides the status code for division by zero.
	DivideByZeroStatus int
}

func New(errChan chan<- error, endpoints *config.EndpointsMap) *Calc {
	return &Calc{
		errChan:            errChan,
		endpoints:          endpoints,
		DivideByZeroStatus: http.StatusNotAcceptable,
	}
}

func (c *Calc) Run() {
	c.server = httptest.NewServer(c)
}

func (c *Calc) URL() string {
	return c.server.URL
}

func (c *Calc) Shutdown() {
	c.server.Close()
}

func (c *Calc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if c.endpoints != nil && !c.endpoints.CheckEndpointAvailability(r.URL.Path) {
		c.reportError(fmt.Errorf("unexpected request: %s", r.URL.Path))
	}

	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if !strings.HasPrefix(r.URL.Path, pathPrefix) {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, pathPrefix), "/")
	operation, operands := parts[0], parts[1:]

	result, status := c.calculate(operation, operands)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, result)
}

func (c *Calc) reportError(err error) {
	if c.errChan == nil {
		return
	}

	select {
	case c.errChan <- err:
	default:
	}
}

func (c *Calc) calculate(operation string, operands []string) (string, int) {
	var arity int
	switch operation {
	case "add", "subtract", "multiply", "divide":
		arity = 2
	case "sqrt":
		arity = 1
	default:
		return "unknown operation", http.StatusNotFound
	}

	if len(operands) != arity {
		return "wrong number of operands", http.StatusNotFound
	}

	a, aIsInt, err := parseOperand(operands[0])
	if err != nil {
		return err.Error(), http.StatusBadRequest
	}

	if operation == "sqrt" {
		if a < 0 {
			return "negative operand", http.StatusNotAcceptable
		}
		return formatNumber(math.Sqrt(a), false), http.StatusOK
	}

	b, bIsInt, err := parseOperand(operands[1])
	if err != nil {
		return err.Error(), http.StatusBadRequest
	}

	integers := aIsInt && bIsInt

	switch operation {
	case "add":
		return formatNumber(a+b, !integers), http.StatusOK
	case "subtract":
		return formatNumber(a-b, !integers), http.StatusOK
	case "multiply":
		return formatNumber(a*b, !integers), http.StatusOK
	default:
		if b == 0 {
			return "division by zero", c.DivideByZeroStatus
		}
		if c.IntegerDivision {
			return formatNumber(math.Trunc(a/b), false), http.StatusOK
		}
		return formatNumber(a/b, true), http.StatusOK
	}
}

func parseOperand(s string) (float64, bool, error) {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		f, _ := strconv.ParseFloat(s, 64)
		return f, true, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad operand: %q", s)
	}

	return f, false, nil
}

// formatNumber prints whole numbers without a fractional part unless
// asFloat is set, in which case "7" becomes "7.0".
func formatNumber(f float64, asFloat bool) string {
	if f == 0 {
		// no negative zero
		f = 0
	}

	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		if asFloat {
			return strconv.FormatFloat(f, 'f', 1, 64)
		}
		return strconv.FormatFloat(f, 'f', 0, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
