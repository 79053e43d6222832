//go:build !linux

package usbdriver

import (
	"context"
	"log/slog"
)

// Watch is a no-op on platforms without udev; hotplug attach/detach must be
// driven manually through whatever produces HotplugEvents on this platform.
func Watch(ctx context.Context, events chan<- HotplugEvent, logger *slog.Logger) error {
	logger.Warn("USB hotplug monitoring is only implemented on linux")
	<-ctx.Done()
	return nil
}
