package ledger

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/testutil"
)

var testNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

// sequentialIDs returns an id generator producing prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

func testOptions(prefix string) []Option {
	return []Option{
		WithClock(testutil.FixedClock(testNow)),
		WithIDGenerator(sequentialIDs(prefix)),
	}
}
