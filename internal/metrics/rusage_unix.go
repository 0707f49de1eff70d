//go:build unix

package metrics

import (
	"time"

	"golang.org/x/sys/unix"
)

// ProcessCPUTime returns the user and system CPU time consumed by the
// process so far. ok is false if the kernel refused the query.
func ProcessCPUTime() (user, system time.Duration, ok bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, 0, false
	}
	return time.Duration(ru.Utime.Nano()), time.Duration(ru.Stime.Nano()), true
}
