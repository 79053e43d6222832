package usbdriver

import "fmt"

type vidPid struct {
	vid uint16
	pid uint16
}

var drivers = make(map[vidPid]Driver)

// Register associates a Driver with a USB vendor/product id pair. Vendor
// packages call this from an init() so that importing a driver package for
// its side effect is enough to make the device recognised, mirroring the
// teacher's api.RegisterDevice blank-import convention.
func Register(vid, pid uint16, driver Driver) {
	key := vidPid{vid, pid}
	if _, exists := drivers[key]; exists {
		panic(fmt.Sprintf("usbdriver: duplicate registration for vid=%#04x pid=%#04x", vid, pid))
	}
	drivers[key] = driver
}

// Lookup resolves the Driver registered for a vendor/product id pair.
func Lookup(vid, pid uint16) (Driver, bool) {
	d, ok := drivers[vidPid{vid, pid}]
	return d, ok
}
