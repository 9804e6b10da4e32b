package report

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wallarm/gotestcalc/internal/db"
)

// jsonReport represents a data required to render a report in JSON format.
type jsonReport struct {
	Date        string  `json:"date"`
	URL         string  `json:"url"`
	MockURL     string  `json:"mock_url,omitempty"`
	Score       float64 `json:"score"`
	TestCasesFP string  `json:"fp"`
	Args        string  `json:"args"`

	Summary *summary `json:"summary"`

	// fields for full report in JSON format
	Checks *checks `json:"checks,omitempty"`
}

type summary struct {
	TotalSent int `json:"total_sent"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Errored   int `json:"errored"`

	TestSets map[string]*db.SummaryTableRow `json:"test_sets"`
}

type checks struct {
	Passed  []*checkDetails `json:"passed,omitempty"`
	Failed  []*checkDetails `json:"failed,omitempty"`
	Errored []*checkDetails `json:"errored,omitempty"`
}

type checkDetails struct {
	TestSet        string   `json:"test_set"`
	TestCase       string   `json:"test_case"`
	Target         string   `json:"target"`
	URL            string   `json:"url"`
	ExpectedStatus int      `json:"expected_status"`
	ExpectedBody   *string  `json:"expected_body,omitempty"`
	Status         int      `json:"status,omitempty"`
	Body           string   `json:"body,omitempty"`
	DurationMs     int64    `json:"duration_ms"`
	TestResult     string   `json:"test_result"`
	Reason         []string `json:"reason,omitempty"`
}

func newJsonReport(s *db.Statistics, reportTime time.Time, target Target) *jsonReport {
	return &jsonReport{
		Date:        reportTime.Format(time.ANSIC),
		URL:         target.URL,
		MockURL:     target.MockURL,
		Score:       s.PassedRequestsPercentage,
		TestCasesFP: s.TestCasesFingerprint,
		Args:        strings.Join(target.Args, " "),
	}
}

func newSummary(s *db.Statistics) *summary {
	sum := &summary{
		TotalSent: s.AllRequestsNumber,
		Passed:    s.PassedRequestsNumber,
		Failed:    s.FailedRequestsNumber,
		Errored:   s.ErroredRequestsNumber,
		TestSets:  make(map[string]*db.SummaryTableRow),
	}

	for _, row := range s.SummaryTable {
		sum.TestSets[row.TestSet] = row
	}

	return sum
}

func toCheckDetails(infos []*db.Info) []*checkDetails {
	var details []*checkDetails

	for _, info := range infos {
		details = append(details, &checkDetails{
			TestSet:        info.Set,
			TestCase:       info.Case,
			Target:         info.Target,
			URL:            info.URL,
			ExpectedStatus: info.ExpectedStatus,
			ExpectedBody:   info.ExpectedBody,
			Status:         info.StatusCode,
			Body:           info.Body,
			DurationMs:     info.Duration.Milliseconds(),
			TestResult:     info.Verdict,
			Reason:         info.Reasons,
		})
	}

	return details
}

// printFullReportToJson prepares and prints a full report in JSON format to the file.
func printFullReportToJson(s *db.Statistics, reportFile string, reportTime time.Time, target Target) error {
	report := newJsonReport(s, reportTime, target)
	report.Summary = newSummary(s)
	report.Checks = &checks{
		Passed:  toCheckDetails(s.Passed),
		Failed:  toCheckDetails(s.Failed),
		Errored: toCheckDetails(s.Errored),
	}

	jsonBytes, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return errors.Wrap(err, "couldn't dump report to JSON")
	}

	file, err := os.Create(reportFile)
	if err != nil {
		return errors.Wrap(err, "couldn't create file")
	}
	defer file.Close()

	_, err = file.Write(jsonBytes)
	if err != nil {
		return errors.Wrap(err, "couldn't write report to file")
	}

	return nil
}
