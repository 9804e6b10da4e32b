// Package testcases holds the default check set shipped with gotestcalc.
//
// Checks are laid out as <set>/<case>.yml.
package testcases

import "embed"

//go:embed calc mock
var FS embed.FS
