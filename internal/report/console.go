package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/wallarm/gotestcalc/internal/db"
)

// RenderConsoleReport prints a console report in selected format.
func RenderConsoleReport(
	w io.Writer,
	s *db.Statistics,
	reportTime time.Time,
	target Target,
	format string,
) error {
	switch format {
	case consoleReportTextFormat:
		return printConsoleReportTable(w, s, reportTime, target)
	case consoleReportJsonFormat:
		return printConsoleReportJson(w, s, reportTime, target)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

// printConsoleReportTable prepares and prints a console report in tabular format.
func printConsoleReportTable(w io.Writer, s *db.Statistics, reportTime time.Time, target Target) error {
	var buffer strings.Builder

	fmt.Fprintf(&buffer, "Checks:\n")

	table := tablewriter.NewWriter(&buffer)
	table.Header("Test set", "Percentage, %", "Passed", "Failed", "Errored", "Sent")

	var rows [][]string
	for _, row := range s.SummaryTable {
		rows = append(rows, []string{
			row.TestSet,
			fmt.Sprintf("%.2f", row.Percentage),
			fmt.Sprintf("%d", row.Passed),
			fmt.Sprintf("%d", row.Failed),
			fmt.Sprintf("%d", row.Errored),
			fmt.Sprintf("%d", row.Sent),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return errors.Wrap(err, "couldn't fill summary table")
	}

	table.Footer(
		fmt.Sprintf("Date:\n%s", reportTime.Format("2006-01-02")),
		fmt.Sprintf("Score:\n%.2f%%", s.PassedRequestsPercentage),
		fmt.Sprintf("Passed:\n%d/%d", s.PassedRequestsNumber, s.AllRequestsNumber),
		fmt.Sprintf("Failed:\n%d/%d", s.FailedRequestsNumber, s.AllRequestsNumber),
		fmt.Sprintf("Errored:\n%d/%d", s.ErroredRequestsNumber, s.AllRequestsNumber),
		fmt.Sprintf("Total Sent:\n%d", s.AllRequestsNumber),
	)
	if err := table.Render(); err != nil {
		return errors.Wrap(err, "couldn't render summary table")
	}

	notPassed := append(append([]*db.Info(nil), s.Failed...), s.Errored...)
	if len(notPassed) != 0 {
		fmt.Fprintf(&buffer, "\nNot passed:\n")

		details := tablewriter.NewWriter(&buffer)
		details.Header("Test set", "Test case", "URL", "Result", "Reason")

		rows = nil
		for _, info := range notPassed {
			rows = append(rows, []string{
				info.Set,
				info.Case,
				info.URL,
				info.Verdict,
				strings.Join(info.Reasons, "\n"),
			})
		}
		if err := details.Bulk(rows); err != nil {
			return errors.Wrap(err, "couldn't fill details table")
		}
		if err := details.Render(); err != nil {
			return errors.Wrap(err, "couldn't render details table")
		}
	}

	fmt.Fprintf(&buffer, "\nURL: %s\n", target.URL)
	if target.MockURL != "" && target.MockURL != target.URL {
		fmt.Fprintf(&buffer, "Mock URL: %s\n", target.MockURL)
	}

	_, err := fmt.Fprintln(w, buffer.String())

	return err
}

// printConsoleReportJson prepares and prints a console report in json format.
func printConsoleReportJson(w io.Writer, s *db.Statistics, reportTime time.Time, target Target) error {
	report := newJsonReport(s, reportTime, target)
	report.Summary = newSummary(s)

	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "couldn't export report to JSON")
	}

	_, err = fmt.Fprintln(w, string(jsonBytes))

	return err
}
