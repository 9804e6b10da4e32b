package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wallarm/gotestcalc/internal/config"
	"github.com/wallarm/gotestcalc/internal/report"
	"github.com/wallarm/gotestcalc/internal/version"
)

const (
	textLogFormat = "text"
	jsonLogFormat = "json"
)

var (
	logFormatsSet = map[string]any{
		textLogFormat: nil,
		jsonLogFormat: nil,
	}
	logFormats = slices.Sorted(maps.Keys(logFormatsSet))
)

const (
	maxReportFilenameLength = 249 // 255 (max length) - 5 (".json") - 1 (to be sure)

	defaultReportPath = "reports"
	defaultReportName = "calc-verification-report-2006-January-02-15-04-05"
	defaultConfigPath = "config.yaml"

	envPrefix = "GOTESTCALC"
)

const cliDescription = `GoTestCalc verifies the HTTP endpoints of a calculator service:
it sends a GET request per check and compares the status code and the body
of the response with the expected ones.

Usage: %s [OPTIONS] --url <URL>

Every option can also be set with a %s_<OPTION> environment variable.

Options:
`

var (
	configPath string
	quiet      bool
	logLevel   logrus.Level
	logFormat  string
)

var usage = func() {
	flag.CommandLine.SetOutput(os.Stdout)
	fmt.Fprintf(os.Stdout, cliDescription, os.Args[0], envPrefix)
	flag.PrintDefaults()
}

// parseFlags parses all GoTestCalc CLI flags
func parseFlags() (args []string, err error) {
	reportPath := filepath.Join(".", defaultReportPath)

	flag.Usage = usage

	// General parameters
	flag.StringVar(&configPath, "configPath", defaultConfigPath, "Path to the config file")
	flag.BoolVar(&quiet, "quiet", false, "If present, disable verbose logging")
	logLvl := flag.String("logLevel", "info", "Logging level: panic, fatal, error, warn, info, debug, trace")
	flag.StringVar(&logFormat, "logFormat", textLogFormat, "Set logging format: "+strings.Join(logFormats, ", "))
	showVersion := flag.Bool("version", false, "Show GoTestCalc version and exit")

	// Target settings
	flag.String("url", "", "Base URL of the calculator service")
	flag.String("mockURL", "", "Base URL of the mock service (defaults to --url)")
	flag.Duration("timeout", config.DefaultTimeout, "Timeout of a single request")
	flag.String("openapiFile", "", "Path to an OpenAPI file the responses must conform to")

	// Test cases settings
	flag.String("testCase", "", "If set then only this test case will be run")
	flag.String("testCasesPath", "", "Path to a folder with test cases (the built-in checks are used if empty)")
	flag.String("testSet", "", "If set then only this test set's cases will be run")

	// HTTP client settings
	flag.Bool("tlsVerify", false, "If present, the received TLS certificate will be verified")
	flag.String("proxy", "", "Proxy URL to use")
	flag.String("addHeader", "", "An HTTP header to add to requests")
	flag.Int("maxIdleConns", 2, "The maximum number of keep-alive connections")
	flag.Int("maxRedirects", 30, "The maximum number of handling redirects (0 disables following)")
	flag.Int("idleConnTimeout", 2, "The maximum amount of time in seconds a keep-alive connection will live")

	// Report settings
	flag.String("reportPath", reportPath, "A directory to store reports")
	reportName := flag.String("reportName", defaultReportName, "Report file name. Supports `time' package template format")
	reportFormat := flag.StringSlice("reportFormat", []string{report.NoneFormat}, "Export report in the following formats: "+strings.Join(report.ReportFormats, ", "))
	flag.Bool("noProgress", false, "If present, the progress bar is not shown")

	flag.Parse()

	// show version and exit
	if *showVersion {
		fmt.Fprintf(os.Stderr, "GoTestCalc %s\n", version.Version)
		os.Exit(0)
	}

	logrusLogLvl, err := logrus.ParseLevel(*logLvl)
	if err != nil {
		return nil, err
	}
	logLevel = logrusLogLvl

	if err = validateLogFormat(logFormat); err != nil {
		return nil, err
	}

	if err = report.ValidateReportFormat(*reportFormat); err != nil {
		return nil, err
	}

	_, reportFileName := filepath.Split(*reportName)
	if len(reportFileName) > maxReportFilenameLength {
		return nil, errors.New("report filename too long")
	}

	args, err = normalizeArgs()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't normalize args")
	}

	return args, nil
}

// normalizeArgs returns string with used CLI args in a unified from.
func normalizeArgs() ([]string, error) {
	// disable lexicographical order
	flag.CommandLine.SortFlags = false

	var (
		args []string
		err  error
	)

	fn := func(f *flag.Flag) {
		// skip if flag wasn't changed
		if !f.Changed {
			return
		}

		var (
			value string
			arg   string
		)

		// all types listed in parseFlags function
		argType := f.Value.Type()
		switch argType {
		case "string":
			value = strings.TrimSpace(f.Value.String())

			if strings.Contains(value, " ") {
				value = `"` + value + `"`
			}

			arg = fmt.Sprintf("--%s=%s", f.Name, value)

		case "stringSlice":
			// remove square brackets: [csv,json] -> csv,json
			value = strings.Trim(f.Value.String(), "[]")
			arg = fmt.Sprintf("--%s=%s", f.Name, value)

		case "bool":
			arg = fmt.Sprintf("--%s", f.Name)

		case "int", "duration":
			value = f.Value.String()
			arg = fmt.Sprintf("--%s=%s", f.Name, value)

		default:
			err = multierror.Append(err, fmt.Errorf("unknown CLI argument type: %s", argType))
		}

		args = append(args, arg)
	}

	// get all changed flags
	flag.Visit(fn)

	if err != nil {
		return nil, err
	}

	return args, nil
}

// loadConfig loads the specified config file and merges it with the parameters
// passed via CLI and environment. A missing default config file is not an error.
func loadConfig() (cfg *config.Config, err error) {
	err = viper.BindPFlags(flag.CommandLine)
	if err != nil {
		return nil, err
	}
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	readConfig := true
	if !flag.CommandLine.Changed("configPath") {
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			readConfig = false
		}
	}

	if readConfig {
		viper.AddConfigPath(".")
		viper.SetConfigFile(configPath)

		err = viper.ReadInConfig()
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read config file")
		}
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't decode config")
	}

	return cfg, nil
}
