package util

import (
	"crypto/sha256"
	"fmt"
)

// maxRawID bounds the id portion of a trace key. Longer ids (free-form
// capture labels) collapse to a short hash so backends with key-size
// limits stay happy.
const maxRawID = 64

// TraceKey returns the storage key for a recorded trace,
// "trace:<namespace>:<id>", hashing oversized ids.
func TraceKey(namespace, id string) string {
	if len(id) > maxRawID {
		sum := sha256.Sum256([]byte(id))
		id = fmt.Sprintf("%x", sum[:8])
	}
	return fmt.Sprintf("trace:%s:%s", namespace, id)
}
