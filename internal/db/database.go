package db

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type DB struct {
	sync.Mutex

	counters     map[string]map[string]int
	passedTests  []*Info
	failedTests  []*Info
	erroredTests []*Info
	results      []*Info
	tests        []*Case

	NumberOfTests uint
	Hash          string
}

// NewDB creates a result store for the given checks. The checks are sorted
// by set and case name, which is the order they are run in.
func NewDB(tests []*Case) (*DB, error) {
	db := &DB{
		counters: make(map[string]map[string]int),
		tests:    make([]*Case, len(tests)),
	}

	copy(db.tests, tests)
	sort.SliceStable(db.tests, func(i, j int) bool {
		if db.tests[i].Set != db.tests[j].Set {
			return db.tests[i].Set < db.tests[j].Set
		}
		return db.tests[i].Name < db.tests[j].Name
	})

	seen := make(map[string]struct{}, len(tests))
	hashes := make([]string, 0, len(tests))

	for _, test := range db.tests {
		id := test.Set + "/" + test.Name
		if _, ok := seen[id]; ok {
			return nil, errors.Errorf("duplicated test case: %s", id)
		}
		seen[id] = struct{}{}

		if _, ok := db.counters[test.Set]; !ok {
			db.counters[test.Set] = map[string]int{}
		}

		hashes = append(hashes, test.Hash())
		db.NumberOfTests++
	}

	sort.Strings(hashes)

	hash := sha256.New()
	for _, h := range hashes {
		hash.Write([]byte(h))
	}
	sum := hash.Sum(nil)
	db.Hash = hex.EncodeToString(sum[:16])

	return db, nil
}

// Update stores the result according to its verdict.
func (db *DB) Update(t *Info) {
	switch t.Verdict {
	case VerdictPassed:
		db.UpdatePassedTests(t)
	case VerdictFailed:
		db.UpdateFailedTests(t)
	default:
		db.UpdateErroredTests(t)
	}
}

func (db *DB) UpdatePassedTests(t *Info) {
	db.Lock()
	defer db.Unlock()
	db.count(t.Set, VerdictPassed)
	db.passedTests = append(db.passedTests, t)
	db.results = append(db.results, t)
}

func (db *DB) UpdateFailedTests(t *Info) {
	db.Lock()
	defer db.Unlock()
	db.count(t.Set, VerdictFailed)
	db.failedTests = append(db.failedTests, t)
	db.results = append(db.results, t)
}

func (db *DB) UpdateErroredTests(t *Info) {
	db.Lock()
	defer db.Unlock()
	db.count(t.Set, VerdictErrored)
	db.erroredTests = append(db.erroredTests, t)
	db.results = append(db.results, t)
}

func (db *DB) count(set string, verdict string) {
	if db.counters[set] == nil {
		db.counters[set] = make(map[string]int)
	}
	db.counters[set][verdict]++
}

func (db *DB) GetTestCases() []*Case {
	return db.tests
}

func (db *DB) GetNumberOfAllTestCases() uint {
	return db.NumberOfTests
}

// GetResults returns the recorded results in the order they were stored.
func (db *DB) GetResults() []*Info {
	db.Lock()
	defer db.Unlock()

	results := make([]*Info, len(db.results))
	copy(results, db.results)

	return results
}
