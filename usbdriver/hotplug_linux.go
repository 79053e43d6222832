//go:build linux

package usbdriver

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jochenvg/go-udev"
)

// Watch monitors udev for "usb" subsystem add/remove events and publishes a
// HotplugEvent for every one whose vendor/product id can be parsed. It never
// calls into a Manager itself; the caller's single tick-loop goroutine
// drains events and applies them. It blocks until ctx is cancelled.
func Watch(ctx context.Context, events chan<- HotplugEvent, logger *slog.Logger) error {
	u := udev.Udev{}
	monitor := u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystem("usb"); err != nil {
		return err
	}

	rawEvents, errCh := monitor.DeviceChan(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err != nil {
				logger.Error("udev monitor error", "error", err)
			}
		case d, ok := <-rawEvents:
			if !ok {
				return nil
			}
			path := d.Syspath()
			switch d.Action() {
			case "add", "bind":
				vid, pid, ok := parseIDs(d)
				if !ok {
					continue
				}
				ev := HotplugEvent{Kind: "add", VendorID: vid, ProductID: pid, Path: path}
				select {
				case events <- ev:
				case <-ctx.Done():
					return nil
				}
			case "remove", "unbind":
				ev := HotplugEvent{Kind: "remove", Path: path}
				select {
				case events <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func parseIDs(d *udev.Device) (vid, pid uint16, ok bool) {
	vidStr := d.PropertyValue("ID_VENDOR_ID")
	pidStr := d.PropertyValue("ID_MODEL_ID")
	if vidStr == "" || pidStr == "" {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(vidStr, 16, 16)
	if err != nil {
		return 0, 0, false
	}
	p, err := strconv.ParseUint(pidStr, 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return uint16(v), uint16(p), true
}
