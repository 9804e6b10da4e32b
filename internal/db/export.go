package db

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
)

// ExportResults writes every recorded result to a CSV file.
func (db *DB) ExportResults(resultsExportFile string) error {
	csvFile, err := os.Create(resultsExportFile)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	csvWriter := csv.NewWriter(csvFile)

	if err := csvWriter.Write([]string{
		"Set",
		"Case",
		"Target",
		"URL",
		"Expected Status",
		"Expected Body",
		"Response Code",
		"Response Body",
		"Duration",
		"Test Result",
		"Reason",
	}); err != nil {
		return err
	}

	for _, r := range db.GetResults() {
		expectedBody := ""
		if r.ExpectedBody != nil {
			expectedBody = *r.ExpectedBody
		}

		statusCode := ""
		if r.StatusCode != 0 {
			statusCode = strconv.Itoa(r.StatusCode)
		}

		err = csvWriter.Write([]string{
			r.Set,
			r.Case,
			r.Target,
			r.URL,
			strconv.Itoa(r.ExpectedStatus),
			expectedBody,
			statusCode,
			r.Body,
			r.Duration.String(),
			r.Verdict,
			strings.Join(r.Reasons, "; "),
		})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()

	return csvWriter.Error()
}
