// Package usbdriver is the host-side USB input-device driver framework:
// each supported physical gamepad gets a small Driver implementation that
// issues interrupt transfers and translates vendor HID reports into
// wiimote.Session input updates. It is the mirror image of the teacher's
// virtual-device side (which serves USB descriptors out over usbip) — here
// the module is the consumer of a real device's reports, not the producer
// of fake ones.
package usbdriver

import (
	"fmt"

	"github.com/Alia5/fakemote/wiimote"
)

// PrivateDataSize bounds the fixed scratch area each Driver gets for its own
// per-device state, matching xbx1_private_data_t's static_assert against
// USB_INPUT_DEVICE_PRIVATE_DATA_SIZE: drivers must fit their state in a
// fixed-size array rather than allocating their own device record type, so
// the framework can keep one homogeneous device table.
const PrivateDataSize = 32

// AsyncRespSize bounds the scratch buffer a pending async interrupt
// transfer reads its response into.
const AsyncRespSize = 64

// Transport is the external USB collaborator: issuing a blocking interrupt
// transfer (used for LED/rumble commands) and arming the next asynchronous
// read (used for polling input reports). Matches
// usb_device_driver_issue_intr_transfer{,_async}.
type Transport interface {
	IssueInterruptTransfer(device *Device, endpoint uint8, data []byte) error
	IssueInterruptTransferAsync(device *Device, endpoint uint8, into []byte) error
}

// Driver is a single vendor/product's vtable: Init runs once when the
// device is attached to a free wiimote session, Disconnect runs on
// detach, SlotChanged runs whenever the manager reassigns the device's
// slot number (typically reflected in LED color), HandleAsyncResponse
// runs every time a previously-armed async transfer completes, and SetLEDs
// runs when the host sets the emulated Wiimote's LEDs. Matches the
// *_driver_ops_* functions each vendor driver exports.
type Driver interface {
	Init(device *Device) error
	Disconnect(device *Device) error
	SlotChanged(device *Device, slot int) error
	HandleAsyncResponse(device *Device) error
	SetLEDs(device *Device, leds uint8) error
}

// Device is one attached physical controller: its USB identity, the
// session it feeds, a fixed-size private-data scratch area for the driver,
// and the buffer the last armed async transfer landed in.
type Device struct {
	VendorID  uint16
	ProductID uint16

	Session *wiimote.Session
	Slot    int

	transport Transport
	driver    Driver

	PrivateData [PrivateDataSize]byte
	AsyncResp   [AsyncRespSize]byte
}

// IssueInterruptTransfer is a convenience forwarder so drivers only ever
// see *Device, never the Transport directly.
func (d *Device) IssueInterruptTransfer(endpoint uint8, data []byte) error {
	return d.transport.IssueInterruptTransfer(d, endpoint, data)
}

// RequestAsyncData arms the next interrupt read into d.AsyncResp.
func (d *Device) RequestAsyncData(endpoint uint8) error {
	return d.transport.IssueInterruptTransferAsync(d, endpoint, d.AsyncResp[:])
}

// Manager owns the attached device table, pairing each physical controller
// with a wiimote.Session and dispatching lifecycle events to its Driver.
type Manager struct {
	wiimotes  *wiimote.Manager
	transport Transport
	devices   map[*Device]struct{}
}

// NewManager builds a usbdriver.Manager bound to a wiimote session manager
// and a USB transport.
func NewManager(wiimotes *wiimote.Manager, transport Transport) *Manager {
	return &Manager{wiimotes: wiimotes, transport: transport, devices: make(map[*Device]struct{})}
}

// Attach allocates a Wiimote session for a newly connected physical
// controller identified by vid/pid, resolves its Driver from the registry,
// and runs Driver.Init. Matches fake_wiimote_mgr_add_input_device plus the
// *_driver_ops_init call that historically followed it.
func (m *Manager) Attach(vid, pid uint16) (*Device, error) {
	driver, ok := Lookup(vid, pid)
	if !ok {
		return nil, fmt.Errorf("usbdriver: no driver registered for vid=%#04x pid=%#04x", vid, pid)
	}

	dev := &Device{VendorID: vid, ProductID: pid, transport: m.transport, driver: driver}
	sess, err := m.wiimotes.AddInputDevice(&driverCallbacks{dev: dev, driver: driver})
	if err != nil {
		return nil, err
	}
	dev.Session = sess

	if err := driver.Init(dev); err != nil {
		_ = sess.Disconnect()
		return nil, fmt.Errorf("usbdriver: init vid=%#04x pid=%#04x: %w", vid, pid, err)
	}
	m.devices[dev] = struct{}{}
	return dev, nil
}

// Detach runs the driver's disconnect hook and tears down the device's
// session.
func (m *Manager) Detach(dev *Device) error {
	delete(m.devices, dev)
	err := dev.driver.Disconnect(dev)
	if dErr := dev.Session.Disconnect(); err == nil {
		err = dErr
	}
	return err
}

// SlotChanged notifies a device's driver that its assigned slot (and thus
// usually its LED color) changed.
func (m *Manager) SlotChanged(dev *Device, slot int) error {
	dev.Slot = slot
	return dev.driver.SlotChanged(dev, slot)
}

// HandleAsyncResponse is called once a device's armed async transfer has
// landed data in dev.AsyncResp; it hands off to the driver, which is
// responsible for parsing the report and re-arming the next transfer.
func (m *Manager) HandleAsyncResponse(dev *Device) error {
	return dev.driver.HandleAsyncResponse(dev)
}

// driverCallbacks adapts a usbdriver.Driver to wiimote.Driver's narrower
// callback surface, forwarding SetLEDs to the physical device's own LED
// command (e.g. xbx1_set_leds_rumble) and discarding any error it returns,
// since wiimote.Driver's callbacks do not return errors.
type driverCallbacks struct {
	dev    *Device
	driver Driver
}

func (c *driverCallbacks) SetLEDs(leds uint8) {
	_ = c.driver.SetLEDs(c.dev, leds)
}

// Assigned fires once the session's HID channels complete; this is the
// first point a slot index is meaningful, so it doubles as the initial
// SlotChanged notification (typically setting the controller's LED color).
func (c *driverCallbacks) Assigned() {
	c.dev.Slot = c.dev.Session.Slot()
	_ = c.driver.SlotChanged(c.dev, c.dev.Slot)
}

func (c *driverCallbacks) Disconnected() {}
