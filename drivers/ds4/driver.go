// Package ds4 adapts a DualShock 4 USB gamepad to a fake Wiimote plus
// Nunchuk extension.
package ds4

import (
	"github.com/Alia5/fakemote/drivers/common"
	"github.com/Alia5/fakemote/usbdriver"
	"github.com/Alia5/fakemote/wiimote"
)

// VendorID is Sony's USB vendor id.
const VendorID uint16 = 0x054c

// ProductIDs this driver recognises: the original DS4 and the DS4 v2/slim
// revision.
const (
	ProductIDDS4   uint16 = 0x05c4
	ProductIDDS4v2 uint16 = 0x09cc
)

const inputEndpoint = 0x84
const outputEndpoint = 0x03

func init() {
	d := &driver{}
	usbdriver.Register(VendorID, ProductIDDS4, d)
	usbdriver.Register(VendorID, ProductIDDS4v2, d)
}

type driver struct{}

func (driver) Init(device *usbdriver.Device) error {
	device.Session.SetExtension(wiimote.ExtNunchuk)
	return device.RequestAsyncData(inputEndpoint)
}

func (driver) Disconnect(device *usbdriver.Device) error {
	return setLEDsRumble(device, 0, 0, 0)
}

func (driver) SlotChanged(device *usbdriver.Device, slot int) error {
	c := common.SlotColor(slot)
	return setLEDsRumble(device, c[0], c[1], c[2])
}

func (driver) SetLEDs(device *usbdriver.Device, leds uint8) error {
	return nil
}

func (driver) HandleAsyncResponse(device *usbdriver.Device) error {
	report, ok := parseInputReport(device.AsyncResp[:])
	if ok {
		buttons := report.mapButtons()
		nunchuk := wiimote.NunchukData{
			JX: report.LX,
			JY: 255 - report.LY,
			C:  report.L1,
			Z:  report.L2Button,
		}
		device.Session.ReportInputExt(buttons, nunchuk.Marshal())
	}
	return device.RequestAsyncData(inputEndpoint)
}

func setLEDsRumble(device *usbdriver.Device, r, g, b uint8) error {
	buf := make([]byte, 32)
	buf[0] = 0x05 // report id
	buf[1] = 0xff // flags: rumble + led + flash all valid
	buf[4] = 0    // rumble small
	buf[5] = 0    // rumble large
	buf[6] = r
	buf[7] = g
	buf[8] = b
	return device.IssueInterruptTransfer(outputEndpoint, buf)
}
