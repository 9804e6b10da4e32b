package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// HexOfHashOfCheckIdentifier returns a stable identifier of a single check.
func HexOfHashOfCheckIdentifier(testSet string, testCase string, target string, operation string, operands ...string) string {
	hash := sha256.New()
	hash.Write([]byte(testSet))
	hash.Write([]byte(testCase))
	hash.Write([]byte(target))
	hash.Write([]byte(operation))
	for _, operand := range operands {
		// separator keeps ["1","23"] and ["12","3"] apart
		hash.Write([]byte{0})
		hash.Write([]byte(operand))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
