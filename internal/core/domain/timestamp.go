package domain

import (
	"math"
	"strconv"
	"time"
)

// Timestamp is a modification time in nanoseconds since the Unix epoch.
type Timestamp int64

// NotFound is the timestamp of a path that does not exist or cannot be inspected.
// It compares older than every real timestamp.
const NotFound Timestamp = math.MinInt64

// TimestampOf converts a time to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Exists reports whether ts refers to an existing path.
func (ts Timestamp) Exists() bool {
	return ts != NotFound
}

// String returns the timestamp in RFC 3339 form, or "missing".
func (ts Timestamp) String() string {
	if ts == NotFound {
		return "missing"
	}
	return time.Unix(0, int64(ts)).UTC().Format(time.RFC3339Nano)
}

// GoString helps test failure output stay readable.
func (ts Timestamp) GoString() string {
	if ts == NotFound {
		return "domain.NotFound"
	}
	return "domain.Timestamp(" + strconv.FormatInt(int64(ts), 10) + ")"
}

// MtimeFunc answers the modification time of a path.
type MtimeFunc func(path string) Timestamp
