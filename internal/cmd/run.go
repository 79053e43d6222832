package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/fakemote/bluetooth/adapter"
	"github.com/Alia5/fakemote/bluetooth/loopback"
	"github.com/Alia5/fakemote/internal/log"
	"github.com/Alia5/fakemote/usbdriver"
	"github.com/Alia5/fakemote/wiimote"
)

// Run is the CLI's main command: it attaches recognised USB gamepads and
// presents each one as a fake Wiimote over Bluetooth.
type Run struct {
	TickInterval time.Duration `help:"Cooperative scheduler tick interval" default:"2ms" env:"FAKEMOTE_TICK_INTERVAL"`
	PollInterval time.Duration `help:"USB interrupt-transfer poll interval" default:"5ms" env:"FAKEMOTE_POLL_INTERVAL"`
	Adapter      string        `help:"BlueZ adapter path to prepare for pairing (e.g. hci0); empty skips adapter setup" env:"FAKEMOTE_ADAPTER"`
	Simulate     bool          `help:"Acknowledge the in-memory HCI/L2CAP backend and suppress the warning about it; that backend is used with or without this flag" default:"false"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if r.Adapter != "" {
		if err := adapter.PrepareForPairing(r.Adapter); err != nil {
			logger.Warn("failed to prepare adapter for pairing", "adapter", r.Adapter, "error", err)
		} else {
			logger.Info("adapter ready for pairing", "adapter", r.Adapter)
		}
	}

	backend := loopback.NewBackend()
	transport := loopback.NewTransport(backend)
	sender := loopback.NewSender(backend)
	if !r.Simulate {
		logger.Warn("no real Bluetooth controller backend is wired up yet; running against the in-memory loopback backend")
	}

	wiimotes := wiimote.NewManager(transport, sender)
	usbTransport := usbdriver.NewPacedTransport(usbdriver.NewLoopbackTransport(), r.PollInterval)
	devices := usbdriver.NewManager(wiimotes, usbTransport)
	logger.Info("fakemote ready", "max_wiimotes", wiimote.MaxFakeWiimotes)

	// The watcher only discovers device identity; it never touches devices
	// itself. Every Attach/Detach below runs on this goroutine, the same one
	// that calls wiimotes.Tick, so the session table only ever has one
	// mutator.
	hotplugEvents := make(chan usbdriver.HotplugEvent, 16)
	go func() {
		if err := usbdriver.Watch(ctx, hotplugEvents, logger); err != nil {
			logger.Error("hotplug watcher exited", "error", err)
		}
	}()
	byPath := make(map[string]*usbdriver.Device)

	ticker := time.NewTicker(r.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case ev := <-hotplugEvents:
			switch ev.Kind {
			case "add":
				dev, err := devices.Attach(ev.VendorID, ev.ProductID)
				if err != nil {
					logger.Warn("failed to attach USB gamepad", "vendor", ev.VendorID, "product", ev.ProductID, "error", err)
					continue
				}
				byPath[ev.Path] = dev
				logger.Info("attached USB gamepad", "vendor", ev.VendorID, "product", ev.ProductID, "path", ev.Path)
			case "remove":
				if dev, ok := byPath[ev.Path]; ok {
					if err := devices.Detach(dev); err != nil {
						logger.Warn("failed to detach USB gamepad", "path", ev.Path, "error", err)
					}
					delete(byPath, ev.Path)
					logger.Info("detached USB gamepad", "path", ev.Path)
				}
			}
		case <-ticker.C:
			if err := wiimotes.Tick(); err != nil {
				logger.Warn("session tick reported protocol errors", "error", err)
			}
		}
	}
}
