package report

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wallarm/gotestcalc/internal/db"
)

const (
	maxReportFilenameLength = 249 // 255 (max length) - 5 (".json") - 1 (to be sure)

	consoleReportTextFormat = "text"
	consoleReportJsonFormat = "json"
)

const (
	NoneFormat = "none"
	JsonFormat = "json"
	CsvFormat  = "csv"
)

var (
	ReportFormatsSet = map[string]any{
		NoneFormat: nil,
		JsonFormat: nil,
		CsvFormat:  nil,
	}
	ReportFormats = slices.Sorted(maps.Keys(ReportFormatsSet))
)

// Target describes the service the checks were sent to.
type Target struct {
	URL     string
	MockURL string
	Args    []string
}

// ExportFullReport saves full report on disk in the given formats: JSON, CSV.
func ExportFullReport(
	database *db.DB, s *db.Statistics, reportFile string, reportTime time.Time,
	target Target, formats []string,
) (reportFileNames []string, err error) {
	_, reportFileName := filepath.Split(reportFile)
	if len(reportFileName) > maxReportFilenameLength {
		return nil, errors.New("report filename too long")
	}

	for _, format := range formats {
		switch format {
		case JsonFormat:
			reportFileName = reportFile + ".json"
			err = printFullReportToJson(s, reportFileName, reportTime, target)
			if err != nil {
				return nil, err
			}

		case CsvFormat:
			reportFileName = reportFile + ".csv"
			err = database.ExportResults(reportFileName)
			if err != nil {
				return nil, errors.Wrap(err, "couldn't export results to CSV")
			}

		case NoneFormat:
			return nil, nil

		default:
			return nil, fmt.Errorf("unknown report format: %s", format)
		}

		reportFileNames = append(reportFileNames, reportFileName)
	}

	return reportFileNames, nil
}

func ValidateReportFormat(formats []string) error {
	if len(formats) == 0 {
		return errors.New("no report format specified")
	}

	// Convert slice to set (map)
	set := make(map[string]any)
	for _, s := range formats {
		if _, ok := ReportFormatsSet[s]; !ok {
			return fmt.Errorf("unknown report format: %s", s)
		}

		set[s] = nil
	}

	// Check for duplicating values
	if len(set) != len(formats) {
		return fmt.Errorf("found duplicated values: %s", strings.Join(formats, ","))
	}

	_, isNone := set[NoneFormat]

	if len(set) > 1 && isNone {
		delete(set, NoneFormat)
		conflictedFormats := slices.Sorted(maps.Keys(set))

		return fmt.Errorf("\"none\" conflicts with other formats: %s", strings.Join(conflictedFormats, ","))
	}

	return nil
}

func IsNoneReportFormat(reportFormat []string) bool {
	if len(reportFormat) > 0 && reportFormat[0] == NoneFormat {
		return true
	}

	return false
}
