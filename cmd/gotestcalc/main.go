package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/wallarm/gotestcalc/internal/config"
	"github.com/wallarm/gotestcalc/internal/db"
	"github.com/wallarm/gotestcalc/internal/openapi"
	"github.com/wallarm/gotestcalc/internal/platform"
	"github.com/wallarm/gotestcalc/internal/report"
	"github.com/wallarm/gotestcalc/internal/verifier"
	"github.com/wallarm/gotestcalc/internal/version"
)

func main() {
	logger := logrus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		logger.WithField("signal", sig).Info("verification canceled")
		cancel()
	}()

	args, err := parseFlags()
	if err != nil {
		logger.WithError(err).Error("couldn't parse flags")
		os.Exit(1)
	}

	logger.SetLevel(logLevel)
	if logFormat == jsonLogFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if quiet {
		logger.SetOutput(io.Discard)
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.WithError(err).Error("couldn't load config")
		os.Exit(1)
	}

	cfg.Args = args

	if err = prepareConfig(cfg); err != nil {
		logger.WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	allPassed, err := run(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("caught error in main function")
		os.Exit(1)
	}

	if !allPassed {
		os.Exit(1)
	}
}

// prepareConfig normalizes the base URLs and validates the merged config.
func prepareConfig(cfg *config.Config) error {
	if cfg.URL == "" {
		return errors.New("--url flag is not set")
	}

	validURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return errors.Wrap(err, "URL is not valid")
	}
	cfg.URL = validURL

	if cfg.MockURL != "" {
		validURL, err = normalizeBaseURL(cfg.MockURL)
		if err != nil {
			return errors.Wrap(err, "mock URL is not valid")
		}
		cfg.MockURL = validURL
	}

	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (bool, error) {
	logger.WithField("version", version.Version).Info("GoTestCalc started")

	var contract *openapi.Validator
	var err error

	if cfg.OpenAPIFile != "" {
		contract, err = openapi.NewValidator(ctx, cfg.OpenAPIFile, cfg.URL, cfg.BaseURL(config.MockTarget))
		if err != nil {
			return false, errors.Wrap(err, "couldn't load OpenAPI spec")
		}

		logger.WithField("file", cfg.OpenAPIFile).Info("Responses will be checked against the OpenAPI spec")
	}

	logger.Info("Test cases loading started")

	testCases, err := db.LoadTestCases(cfg)
	if err != nil {
		return false, errors.Wrap(err, "loading test case")
	}

	logger.Info("Test cases loading finished")

	db, err := db.NewDB(testCases)
	if err != nil {
		return false, errors.Wrap(err, "couldn't create test cases DB")
	}

	logger.WithFields(logrus.Fields{
		"fp":       db.Hash,
		"checks":   db.GetNumberOfAllTestCases(),
		"url":      cfg.URL,
		"mock_url": cfg.BaseURL(config.MockTarget),
		"timeout":  cfg.Timeout.String(),
	}).Info("Test cases fingerprint")

	v, err := verifier.New(logger, cfg, db, contract)
	if err != nil {
		return false, errors.Wrap(err, "couldn't create verifier")
	}

	if !cfg.NoProgress && !quiet && terminal.IsTerminal(int(os.Stderr.Fd())) {
		v.SetProgressBar(platform.NewProgressBar(os.Stderr, int(db.GetNumberOfAllTestCases())))
	}

	err = v.Run(ctx)
	if err != nil {
		return false, errors.Wrap(err, "error occurred while verifying")
	}

	reportTime := time.Now()
	stat := db.GetStatistics()

	target := report.Target{
		URL:     cfg.URL,
		MockURL: cfg.BaseURL(config.MockTarget),
		Args:    cfg.Args,
	}

	err = report.RenderConsoleReport(os.Stdout, stat, reportTime, target, logFormat)
	if err != nil {
		return false, err
	}

	if report.IsNoneReportFormat(cfg.ReportFormat) || len(cfg.ReportFormat) == 0 {
		return stat.AllPassed(), nil
	}

	_, err = os.Stat(cfg.ReportPath)
	if os.IsNotExist(err) {
		if makeErr := os.MkdirAll(cfg.ReportPath, 0700); makeErr != nil {
			return false, errors.Wrap(makeErr, "creating dir")
		}
	}

	reportName := reportTime.Format(cfg.ReportName)
	reportFile := filepath.Join(cfg.ReportPath, reportName)

	reportFiles, err := report.ExportFullReport(db, stat, reportFile, reportTime, target, cfg.ReportFormat)
	if err != nil {
		return false, errors.Wrap(err, "couldn't export full report")
	}

	for _, file := range reportFiles {
		reportExt := strings.ToUpper(strings.Trim(filepath.Ext(file), "."))
		logger.WithField("filename", file).Infof("Export %s full report", reportExt)
	}

	return stat.AllPassed(), nil
}
