package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wallarm/gotestcalc/internal/db"
)

func strPtr(s string) *string {
	return &s
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	cases := []*db.Case{
		{Set: "calc", Name: "add", Target: "primary", Operation: "add", Operands: []string{"1", "2"}},
		{Set: "calc", Name: "divide", Target: "primary", Operation: "divide", Operands: []string{"21", "3"}},
		{Set: "mock", Name: "sqrt", Target: "mock", Operation: "sqrt", Operands: []string{"64"}},
	}

	database, err := db.NewDB(cases)
	if err != nil {
		t.Fatal(err)
	}

	database.Update(&db.Info{
		Set: "calc", Case: "add", Target: "primary", URL: "http://calc/calc/add/1/2",
		ExpectedStatus: 200, ExpectedBody: strPtr("3"), StatusCode: 200, Body: "3",
		Verdict: db.VerdictPassed,
	})
	database.Update(&db.Info{
		Set: "calc", Case: "divide", Target: "primary", URL: "http://calc/calc/divide/21/3",
		ExpectedStatus: 200, ExpectedBody: strPtr("7.0"), StatusCode: 200, Body: "7",
		Verdict: db.VerdictFailed, Reasons: []string{`body: got "7", want "7.0"`},
	})
	database.Update(&db.Info{
		Set: "mock", Case: "sqrt", Target: "mock", URL: "http://mock/calc/sqrt/64",
		ExpectedStatus: 200, ExpectedBody: strPtr("8"),
		Verdict: db.VerdictErrored, Reasons: []string{"timeout after 2s"},
	})

	return database
}

var testTarget = Target{URL: "http://calc", MockURL: "http://mock", Args: []string{"--url", "http://calc"}}

func TestValidateReportFormat(t *testing.T) {
	testCases := []struct {
		formats []string
		isBad   bool
	}{
		{formats: []string{"json"}},
		{formats: []string{"csv", "json"}},
		{formats: []string{"none"}},
		{formats: nil, isBad: true},
		{formats: []string{"html"}, isBad: true},
		{formats: []string{"json", "json"}, isBad: true},
		{formats: []string{"none", "csv"}, isBad: true},
	}

	for _, tc := range testCases {
		err := ValidateReportFormat(tc.formats)
		if tc.isBad && err == nil {
			t.Errorf("expected an error for %v", tc.formats)
		}
		if !tc.isBad && err != nil {
			t.Errorf("unexpected error for %v: %v", tc.formats, err)
		}
	}
}

func TestRenderConsoleReportText(t *testing.T) {
	database := newTestDB(t)

	var out bytes.Buffer
	err := RenderConsoleReport(&out, database.GetStatistics(), time.Now(), testTarget, consoleReportTextFormat)
	if err != nil {
		t.Fatal(err)
	}

	report := out.String()
	for _, want := range []string{"calc", "mock", "divide", `want "7.0"`, "timeout after 2s", "http://mock"} {
		if !strings.Contains(report, want) {
			t.Errorf("console report doesn't contain %q:\n%s", want, report)
		}
	}
}

func TestRenderConsoleReportJson(t *testing.T) {
	database := newTestDB(t)

	var out bytes.Buffer
	err := RenderConsoleReport(&out, database.GetStatistics(), time.Now(), testTarget, consoleReportJsonFormat)
	if err != nil {
		t.Fatal(err)
	}

	var report jsonReport
	if err = json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("console report isn't valid JSON: %v", err)
	}

	if report.Summary.TotalSent != 3 || report.Summary.Passed != 1 ||
		report.Summary.Failed != 1 || report.Summary.Errored != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Checks != nil {
		t.Fatalf("console report must not contain check details")
	}
	if report.Summary.TestSets["calc"].Sent != 2 {
		t.Fatalf("unexpected calc set: %+v", report.Summary.TestSets["calc"])
	}
}

func TestRenderConsoleReportUnknownFormat(t *testing.T) {
	database := newTestDB(t)

	err := RenderConsoleReport(&bytes.Buffer{}, database.GetStatistics(), time.Now(), testTarget, "yaml")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestExportFullReport(t *testing.T) {
	database := newTestDB(t)
	reportFile := filepath.Join(t.TempDir(), "calc-report")

	files, err := ExportFullReport(database, database.GetStatistics(), reportFile, time.Now(), testTarget, []string{JsonFormat, CsvFormat})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0] != reportFile+".json" || files[1] != reportFile+".csv" {
		t.Fatalf("unexpected report files: %v", files)
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}

	var report jsonReport
	if err = json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if report.Checks == nil || len(report.Checks.Failed) != 1 || len(report.Checks.Errored) != 1 {
		t.Fatalf("unexpected checks: %+v", report.Checks)
	}
	if report.Checks.Failed[0].TestCase != "divide" {
		t.Fatalf("unexpected failed check: %+v", report.Checks.Failed[0])
	}
	if report.Args != "--url http://calc" {
		t.Fatalf("unexpected args: %q", report.Args)
	}

	csvData, err := os.ReadFile(files[1])
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(csvData), "\n"); lines != 4 {
		t.Fatalf("got %d CSV lines, want 4", lines)
	}
}

func TestExportFullReportNone(t *testing.T) {
	database := newTestDB(t)
	reportFile := filepath.Join(t.TempDir(), "calc-report")

	files, err := ExportFullReport(database, database.GetStatistics(), reportFile, time.Now(), testTarget, []string{NoneFormat})
	if err != nil {
		t.Fatal(err)
	}
	if files != nil {
		t.Fatalf("no file must be written, got %v", files)
	}
}

func TestExportFullReportLongName(t *testing.T) {
	database := newTestDB(t)
	reportFile := filepath.Join(t.TempDir(), strings.Repeat("r", maxReportFilenameLength+1))

	_, err := ExportFullReport(database, database.GetStatistics(), reportFile, time.Now(), testTarget, []string{JsonFormat})
	if err == nil {
		t.Fatalf("expected an error")
	}
}
