package bluecrab

import (
	"fmt"
	"os"
	"time"
)

// newFixedClock returns a clock override that always reports the same
// instant, for tests that need deterministic CreatedAt/UpdatedAt/commit
// timestamps without depending on wall-clock time.
func newFixedClock(unixNano int64) func() time.Time {
	t := time.Unix(0, unixNano)
	return func() time.Time { return t }
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

// keyForIndex generates deterministic, distinct keys for bulk-load tests.
func keyForIndex(i int) string {
	return fmt.Sprintf("key:%06d", i)
}
