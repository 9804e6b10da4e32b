package db

import (
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/wallarm/gotestcalc/internal/config"
	"github.com/wallarm/gotestcalc/testcases"
)

// LoadTestCases reads check definitions from cfg.TestCasesPath, or from the
// embedded default set when the path is empty.
func LoadTestCases(cfg *config.Config) ([]*Case, error) {
	var fsys fs.FS = testcases.FS

	if cfg.TestCasesPath != "" {
		info, err := os.Stat(cfg.TestCasesPath)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't open test cases path")
		}
		if !info.IsDir() {
			return nil, errors.Errorf("test cases path is not a directory: %s", cfg.TestCasesPath)
		}

		fsys = os.DirFS(cfg.TestCasesPath)
	}

	return LoadTestCasesFS(fsys, cfg.TestSet, cfg.TestCase)
}

// LoadTestCasesFS reads every <set>/<case>.yml file of fsys. Non-empty
// testSet and testCase select a single set or case.
func LoadTestCasesFS(fsys fs.FS, testSet string, testCase string) (testCases []*Case, err error) {
	validate := validator.New()

	err = fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		fileExt := path.Ext(filePath)
		if fileExt != ".yml" && fileExt != ".yaml" {
			return nil
		}

		// Ignore subdirectories, process as .../<testSetName>/<testCaseName>.yml
		parts := strings.Split(filePath, "/")
		if len(parts) < 2 {
			return nil
		}
		parts = parts[len(parts)-2:]

		testSetName := parts[0]
		testCaseName := strings.TrimSuffix(parts[1], fileExt)

		if testSet != "" && testSetName != testSet {
			return nil
		}

		if testCase != "" && testCaseName != testCase {
			return nil
		}

		yamlFile, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return err
		}

		var t Case
		err = yaml.Unmarshal(yamlFile, &t)
		if err != nil {
			return errors.Wrapf(err, "couldn't parse %s", filePath)
		}

		t.Name = testCaseName
		t.Set = testSetName

		if t.Target == "" {
			t.Target = config.PrimaryTarget
		}

		if err = validate.Struct(&t); err != nil {
			return errors.Wrapf(err, "invalid test case %s", filePath)
		}

		testCases = append(testCases, &t)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if testCases == nil {
		return nil, errors.New("no tests were selected")
	}

	return testCases, nil
}
