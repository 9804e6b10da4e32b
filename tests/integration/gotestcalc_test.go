package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wallarm/gotestcalc/internal/db"
	"github.com/wallarm/gotestcalc/internal/report"
	"github.com/wallarm/gotestcalc/internal/verifier"
	"github.com/wallarm/gotestcalc/tests/integration/calc"

	test_config "github.com/wallarm/gotestcalc/tests/integration/config"
)

var defaultEndpoints = []string{
	"/calc/add/1/2",
	"/calc/multiply/3/7",
	"/calc/divide/21/3",
	"/calc/divide/21/0",
}

var mockEndpoints = []string{
	"/calc/sqrt/64",
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func strPtr(s string) *string {
	return &s
}

func startServices(t *testing.T, errChan chan error) (*calc.Calc, *calc.Calc, *test_config.EndpointsMap, *test_config.EndpointsMap) {
	t.Helper()

	primaryEndpoints := test_config.NewEndpointsMap(defaultEndpoints...)
	mockEndpointsMap := test_config.NewEndpointsMap(mockEndpoints...)

	primary := calc.New(errChan, primaryEndpoints)
	primary.Run()

	mock := calc.New(errChan, mockEndpointsMap)
	mock.Run()

	t.Cleanup(func() {
		primary.Shutdown()
		mock.Shutdown()
	})

	return primary, mock, primaryEndpoints, mockEndpointsMap
}

func TestGoTestCalc(t *testing.T) {
	done := make(chan *db.Statistics)
	errChan := make(chan error, 1)

	primary, mock, primaryEndpoints, mockEndpointsMap := startServices(t, errChan)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		stat, err := runGoTestCalc(ctx, primary.URL(), mock.URL())
		if err != nil {
			errChan <- err
		} else {
			done <- stat
		}
	}()

	select {
	case err := <-errChan:
		cancel()
		t.Fatalf("got an error during the test: %v", err)
	case stat := <-done:
		if !stat.AllPassed() {
			t.Fatalf("not all checks passed: failed %v, errored %v", stat.Failed, stat.Errored)
		}
		if stat.AllRequestsNumber != 5 {
			t.Fatalf("got %d checks, want 5", stat.AllRequestsNumber)
		}
		if primaryEndpoints.CountEndpoints() != 0 {
			t.Fatalf("not all endpoints were requested: %v", primaryEndpoints.GetRemainingValues())
		}
		if mockEndpointsMap.CountEndpoints() != 0 {
			t.Fatalf("not all mock endpoints were requested: %v", mockEndpointsMap.GetRemainingValues())
		}
	case <-time.After(30 * time.Second):
		t.Fatalf("verification didn't finish in time")
	}
}

func runGoTestCalc(ctx context.Context, url string, mockURL string) (*db.Statistics, error) {
	logger := newLogger()

	cfg := test_config.GetConfig(url, mockURL)

	testCases, err := db.LoadTestCases(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "loading test cases")
	}

	db, err := db.NewDB(testCases)
	if err != nil {
		return nil, errors.Wrap(err, "creating DB")
	}

	v, err := verifier.New(logger, cfg, db, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating verifier")
	}

	if err = v.Run(ctx); err != nil {
		return nil, errors.Wrap(err, "run verification")
	}

	stat := db.GetStatistics()

	err = report.RenderConsoleReport(io.Discard, stat, time.Now(), report.Target{URL: url, MockURL: mockURL}, "text")
	if err != nil {
		return nil, errors.Wrap(err, "table rendering")
	}

	return stat, nil
}

func TestGoTestCalcDetectsRegressions(t *testing.T) {
	primary := calc.New(nil, nil)
	primary.IntegerDivision = true
	primary.DivideByZeroStatus = http.StatusInternalServerError
	primary.Run()
	defer primary.Shutdown()

	mock := calc.New(nil, nil)
	mock.Run()
	defer mock.Shutdown()

	stat, err := runGoTestCalc(context.Background(), primary.URL(), mock.URL())
	if err != nil {
		t.Fatal(err)
	}

	if stat.AllPassed() {
		t.Fatalf("regressions weren't detected")
	}
	if stat.FailedRequestsNumber != 2 || stat.PassedRequestsNumber != 3 {
		t.Fatalf("unexpected statistics: %d passed, %d failed", stat.PassedRequestsNumber, stat.FailedRequestsNumber)
	}

	failed := make(map[string]*db.Info)
	for _, info := range stat.Failed {
		failed[info.Case] = info
	}

	if info, ok := failed["divide"]; !ok || info.Reasons[0] != `body: got "7", want "7.0"` {
		t.Fatalf("unexpected divide result: %+v", info)
	}
	if info, ok := failed["divide-by-zero"]; !ok || info.Reasons[0] != "status: got 500, want 406" {
		t.Fatalf("unexpected divide-by-zero result: %+v", info)
	}
}

func TestVerifyTimeout(t *testing.T) {
	slow := calc.New(nil, nil)
	slow.Delay = 10 * test_config.ShortTimeout
	slow.Run()
	defer slow.Shutdown()

	cfg := test_config.GetConfig(slow.URL(), "")
	store, err := db.NewDB(nil)
	if err != nil {
		t.Fatal(err)
	}

	v, err := verifier.New(newLogger(), cfg, store, nil)
	if err != nil {
		t.Fatal(err)
	}

	info := v.Verify(context.Background(), slow.URL()+"/calc/add/1/2", test_config.ShortTimeout, http.StatusOK, strPtr("3"))
	if info.Verdict != db.VerdictErrored {
		t.Fatalf("got verdict %q, want %q", info.Verdict, db.VerdictErrored)
	}
	if want := fmt.Sprintf("timeout after %s", test_config.ShortTimeout); info.Reasons[0] != want {
		t.Fatalf("got reason %q, want %q", info.Reasons[0], want)
	}
}

func TestVerifyStatusOnly(t *testing.T) {
	primary := calc.New(nil, nil)
	primary.Run()
	defer primary.Shutdown()

	cfg := test_config.GetConfig(primary.URL(), "")
	store, err := db.NewDB(nil)
	if err != nil {
		t.Fatal(err)
	}

	v, err := verifier.New(newLogger(), cfg, store, nil)
	if err != nil {
		t.Fatal(err)
	}

	info := v.Verify(context.Background(), primary.URL()+"/calc/divide/21/0", cfg.Timeout, http.StatusNotAcceptable, nil)
	if info.Verdict != db.VerdictPassed {
		t.Fatalf("got verdict %q, reasons %v", info.Verdict, info.Reasons)
	}
	if info.Body != "division by zero" {
		t.Fatalf("the body must still be recorded, got %q", info.Body)
	}
}

func TestVerifyProperties(t *testing.T) {
	primary := calc.New(nil, nil)
	primary.Run()
	defer primary.Shutdown()

	cfg := test_config.GetConfig(primary.URL(), "")
	store, err := db.NewDB(nil)
	if err != nil {
		t.Fatal(err)
	}

	v, err := verifier.New(newLogger(), cfg, store, nil)
	if err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	operand := gen.Int64Range(-1_000_000, 1_000_000)

	properties.Property("sum of integers is verified", prop.ForAll(
		func(a, b int64) bool {
			url := fmt.Sprintf("%s/calc/add/%d/%d", primary.URL(), a, b)
			info := v.Verify(context.Background(), url, cfg.Timeout, http.StatusOK, strPtr(strconv.FormatInt(a+b, 10)))
			return info.Verdict == db.VerdictPassed
		},
		operand, operand,
	))

	properties.Property("wrong sum is rejected", prop.ForAll(
		func(a, b int64) bool {
			url := fmt.Sprintf("%s/calc/add/%d/%d", primary.URL(), a, b)
			info := v.Verify(context.Background(), url, cfg.Timeout, http.StatusOK, strPtr(strconv.FormatInt(a+b+1, 10)))
			return info.Verdict == db.VerdictFailed && len(info.Reasons) == 1
		},
		operand, operand,
	))

	properties.Property("verification is idempotent", prop.ForAll(
		func(a, b int64) bool {
			url := fmt.Sprintf("%s/calc/multiply/%d/%d", primary.URL(), a, b)
			first := v.Verify(context.Background(), url, cfg.Timeout, http.StatusOK, strPtr("0"))
			second := v.Verify(context.Background(), url, cfg.Timeout, http.StatusOK, strPtr("0"))
			return first.Verdict == second.Verdict &&
				first.StatusCode == second.StatusCode &&
				first.Body == second.Body
		},
		gen.Int64Range(-1000, 1000), gen.Int64Range(-1000, 1000),
	))

	properties.TestingRun(t)
}
