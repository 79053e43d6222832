// Package ds3 adapts a DualShock 3 (Sixaxis) USB gamepad to a fake Wiimote
// plus Nunchuk extension.
//
// Unlike the other vendor drivers in this module, no DS3 reference exists
// anywhere in the material this module was grounded on: the report layout
// below follows the DS3's well documented public HID report format rather
// than a file from that corpus.
package ds3

import (
	"github.com/Alia5/fakemote/drivers/common"
	"github.com/Alia5/fakemote/usbdriver"
	"github.com/Alia5/fakemote/wiimote"
)

// VendorID is Sony's USB vendor id.
const VendorID uint16 = 0x054c

// ProductIDDS3 is the Sixaxis/DualShock 3 product id.
const ProductIDDS3 uint16 = 0x0268

const inputEndpoint = 0x81
const outputEndpoint = 0x02

func init() {
	usbdriver.Register(VendorID, ProductIDDS3, &driver{})
}

type driver struct{}

func (driver) Init(device *usbdriver.Device) error {
	device.Session.SetExtension(wiimote.ExtNunchuk)
	// The DS3 needs report 0xf4 written once before it starts streaming
	// input on its interrupt endpoint.
	if err := device.IssueInterruptTransfer(outputEndpoint, enableReportingPayload); err != nil {
		return err
	}
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
			Z:  report.L2,
		}
		device.Session.ReportInputExt(buttons, nunchuk.Marshal())
	}
	return device.RequestAsyncData(inputEndpoint)
}

// setLEDsRumble lights between zero and four of the DS3's fixed
// player-indicator LEDs, since it has no RGB lightbar. Colour channels are
// used only to pick how many LEDs to light, by their average brightness.
func setLEDsRumble(device *usbdriver.Device, r, g, b uint8) error {
	buf := make([]byte, 48)
	buf[0] = 0x01 // report id (HID SET_REPORT output payload)
	buf[1] = 0x00
	buf[2] = 0x00
	buf[3] = 0x00
	buf[4] = 0x00 // rumble duration right
	buf[5] = 0x00 // rumble motor right
	buf[6] = 0x00 // rumble duration left
	buf[7] = 0x00 // rumble motor left

	leds := ledMaskFor(r, g, b)
	buf[9] = leds << 1

	return device.IssueInterruptTransfer(outputEndpoint, buf)
}

func ledMaskFor(r, g, b uint8) uint8 {
	level := (uint16(r) + uint16(g) + uint16(b)) / 3
	switch {
	case level == 0:
		return 0x0
	case level < 64:
		return 0x1
	case level < 128:
		return 0x3
	case level < 192:
		return 0x7
	default:
		return 0xf
	}
}

var enableReportingPayload = []byte{0x42, 0x0c, 0x00, 0x00}
