package usbdriver

// HotplugEvent is a USB add/remove notification handed from the platform
// hotplug watcher goroutine to the single consumer goroutine that also
// calls Manager.Tick. The watcher only discovers device identity; it never
// touches a Manager itself, so Attach/Detach always run on the same
// goroutine as Tick.
type HotplugEvent struct {
	Kind      string // "add" or "remove"
	VendorID  uint16
	ProductID uint16
	Path      string // opaque per-platform identity, stable across add/remove of the same physical device
}
