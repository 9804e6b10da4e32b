package db

import (
	"sort"
)

type Statistics struct {
	TestCasesFingerprint string

	SummaryTable []*SummaryTableRow
	Passed       []*Info
	Failed       []*Info
	Errored      []*Info

	AllRequestsNumber     int
	PassedRequestsNumber  int
	FailedRequestsNumber  int
	ErroredRequestsNumber int

	PassedRequestsPercentage  float64
	FailedRequestsPercentage  float64
	ErroredRequestsPercentage float64
}

type SummaryTableRow struct {
	TestSet    string  `json:"test_set" validate:"required,printascii,max=256"`
	Percentage float64 `json:"percentage" validate:"min=0,max=100"`
	Sent       int     `json:"sent" validate:"min=0"`
	Passed     int     `json:"passed" validate:"min=0"`
	Failed     int     `json:"failed" validate:"min=0"`
	Errored    int     `json:"errored" validate:"min=0"`
}

// AllPassed reports whether at least one check was run and none of them
// failed or errored.
func (s *Statistics) AllPassed() bool {
	return s.AllRequestsNumber > 0 && s.PassedRequestsNumber == s.AllRequestsNumber
}

func (db *DB) GetStatistics() *Statistics {
	db.Lock()
	defer db.Unlock()

	s := &Statistics{
		TestCasesFingerprint: db.Hash,
		Passed:               append([]*Info(nil), db.passedTests...),
		Failed:               append([]*Info(nil), db.failedTests...),
		Errored:              append([]*Info(nil), db.erroredTests...),
	}

	var sets []string
	for set := range db.counters {
		sets = append(sets, set)
	}
	sort.Strings(sets)

	for _, set := range sets {
		passed := db.counters[set][VerdictPassed]
		failed := db.counters[set][VerdictFailed]
		errored := db.counters[set][VerdictErrored]
		sent := passed + failed + errored

		// sets with no results yet are left out
		if sent == 0 {
			continue
		}

		s.SummaryTable = append(s.SummaryTable, &SummaryTableRow{
			TestSet:    set,
			Percentage: CalculatePercentage(passed, sent),
			Sent:       sent,
			Passed:     passed,
			Failed:     failed,
			Errored:    errored,
		})

		s.PassedRequestsNumber += passed
		s.FailedRequestsNumber += failed
		s.ErroredRequestsNumber += errored
	}

	s.AllRequestsNumber = s.PassedRequestsNumber + s.FailedRequestsNumber + s.ErroredRequestsNumber

	s.PassedRequestsPercentage = CalculatePercentage(s.PassedRequestsNumber, s.AllRequestsNumber)
	s.FailedRequestsPercentage = CalculatePercentage(s.FailedRequestsNumber, s.AllRequestsNumber)
	s.ErroredRequestsPercentage = CalculatePercentage(s.ErroredRequestsNumber, s.AllRequestsNumber)

	return s
}
