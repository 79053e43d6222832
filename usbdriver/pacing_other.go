//go:build !linux

package usbdriver

import "time"

func pace(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
