package verifier

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/wallarm/gotestcalc/internal/config"
	"github.com/wallarm/gotestcalc/internal/db"
	"github.com/wallarm/gotestcalc/internal/openapi"
	"github.com/wallarm/gotestcalc/internal/verifier/clients"
	"github.com/wallarm/gotestcalc/internal/verifier/clients/gohttp"
	"github.com/wallarm/gotestcalc/internal/verifier/types"
)

// Verifier sends one GET request per check and compares the response with
// the expected outcome.
type Verifier struct {
	logger *logrus.Logger

	cfg        *config.Config
	db         *db.DB
	httpClient clients.HTTPClient
	contract   *openapi.Validator
	bar        *progressbar.ProgressBar
}

// New creates a Verifier. contract may be nil, which disables the OpenAPI
// response check.
func New(logger *logrus.Logger, cfg *config.Config, db *db.DB, contract *openapi.Validator) (*Verifier, error) {
	httpClient, err := gohttp.NewClient(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create HTTP client")
	}

	return NewWithClient(logger, cfg, db, contract, httpClient), nil
}

// NewWithClient creates a Verifier that sends requests with the given client.
func NewWithClient(
	logger *logrus.Logger,
	cfg *config.Config,
	db *db.DB,
	contract *openapi.Validator,
	httpClient clients.HTTPClient,
) *Verifier {
	return &Verifier{
		logger:     logger,
		cfg:        cfg,
		db:         db,
		httpClient: httpClient,
		contract:   contract,
	}
}

// SetProgressBar makes Run advance bar after every check.
func (v *Verifier) SetProgressBar(bar *progressbar.ProgressBar) {
	v.bar = bar
}

// Verify performs a single GET request to url, bounded by timeout, and
// compares the response status and the UTF-8 decoded body with the expected
// values. A nil expectedBody skips the body comparison. The returned Info is
// never nil.
func (v *Verifier) Verify(
	ctx context.Context,
	url string,
	timeout time.Duration,
	expectedStatus int,
	expectedBody *string,
) *db.Info {
	info := &db.Info{
		URL:            url,
		ExpectedStatus: expectedStatus,
		ExpectedBody:   expectedBody,
	}

	if timeout <= 0 {
		info.Verdict = db.VerdictErrored
		info.Reasons = []string{fmt.Sprintf("timeout must be positive, got %s", timeout)}
		return info
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := types.NewGetRequest(reqCtx, url)
	if err != nil {
		info.Verdict = db.VerdictErrored
		info.Reasons = []string{errors.Wrap(err, "couldn't prepare request").Error()}
		return info
	}

	start := time.Now()
	resp, err := v.httpClient.SendRequest(reqCtx, req)
	info.Duration = time.Since(start)

	if err != nil {
		info.Verdict = db.VerdictErrored
		if isTimeout(err) && ctx.Err() == nil {
			info.Reasons = []string{fmt.Sprintf("timeout after %s", timeout)}
		} else {
			info.Reasons = []string{err.Error()}
		}
		return info
	}

	info.StatusCode = resp.GetStatusCode()
	info.Body = string(resp.GetContent())

	var result *multierror.Error

	if info.StatusCode != expectedStatus {
		result = multierror.Append(result, fmt.Errorf("status: got %d, want %d", info.StatusCode, expectedStatus))
	}

	if expectedBody != nil && info.Body != *expectedBody {
		result = multierror.Append(result, fmt.Errorf("body: got %q, want %q", info.Body, *expectedBody))
	}

	if v.contract != nil {
		if err = v.contract.ValidateResponse(ctx, req.Req, resp); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "contract"))
		}
	}

	if err = result.ErrorOrNil(); err != nil {
		info.Verdict = db.VerdictFailed
		for _, e := range result.Errors {
			info.Reasons = append(info.Reasons, e.Error())
		}
		return info
	}

	info.Verdict = db.VerdictPassed

	return info
}

// Run verifies every check of the DB one after another and stores the
// results. It stops early only when ctx is canceled.
func (v *Verifier) Run(ctx context.Context) error {
	v.logger.Info("Verification started")
	defer v.logger.Info("Verification finished")

	start := time.Now()
	defer func() {
		v.logger.WithField("duration", time.Since(start).String()).Info("Verification time")
	}()

	var checked atomic.Uint64

	stopStatus := v.listenForStatusRequests(ctx, &checked)
	defer stopStatus()

	for _, t := range v.db.GetTestCases() {
		if err := ctx.Err(); err != nil {
			return err
		}

		info := v.verifyCase(ctx, t)

		if ctx.Err() != nil {
			// the result of an interrupted request says nothing about the service
			return ctx.Err()
		}

		v.db.Update(info)
		checked.Add(1)

		entry := v.logger.WithFields(logrus.Fields{
			"set":     info.Set,
			"case":    info.Case,
			"url":     info.URL,
			"status":  info.StatusCode,
			"verdict": info.Verdict,
		})
		if info.Verdict == db.VerdictPassed {
			entry.Debug("check passed")
		} else {
			entry.WithField("reasons", info.Reasons).Warn("check did not pass")
		}

		if v.bar != nil {
			_ = v.bar.Add(1)
		}
	}

	if v.bar != nil {
		_ = v.bar.Finish()
	}

	return nil
}

func (v *Verifier) verifyCase(ctx context.Context, t *db.Case) *db.Info {
	targetURL, err := t.URL(v.cfg)

	var info *db.Info
	if err != nil {
		info = &db.Info{
			ExpectedStatus: t.Expect.Status,
			ExpectedBody:   t.Expect.Body,
			Verdict:        db.VerdictErrored,
			Reasons:        []string{err.Error()},
		}
	} else {
		info = v.Verify(ctx, targetURL, v.cfg.Timeout, t.Expect.Status, t.Expect.Body)
	}

	info.Set = t.Set
	info.Case = t.Name
	info.Target = t.Target

	return info
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
