//go:build linux

package usbdriver

import (
	"time"

	"golang.org/x/sys/unix"
)

// pace sleeps for d using a raw nanosleep syscall rather than the runtime
// timer wheel, matching how a tight interrupt-transfer poll loop would
// want to behave close to the scheduler rather than through goroutine
// park/wake machinery.
func pace(d time.Duration) {
	if d <= 0 {
		return
	}
	ts := unix.NsecToTimespec(d.Nanoseconds())
	for {
		var rem unix.Timespec
		if err := unix.Nanosleep(&ts, &rem); err != nil {
			if err == unix.EINTR {
				ts = rem
				continue
			}
			return
		}
		return
	}
}
