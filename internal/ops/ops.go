// Package ops implements the operations shared by the REST, MCP, and
// CLI surfaces. Operations take the database handle plus a typed input
// and return a typed output; completion-backed operations additionally
// take an Advisor.
package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sproutnotes/sprout/internal/errors"
)

// newID generates a new ULID for ideas and folders.
func newID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return id.String(), nil
}

// nowMillis returns the current time in epoch milliseconds, the unit
// used for all record timestamps.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func cleanString(s string) string {
	return strings.TrimSpace(s)
}
