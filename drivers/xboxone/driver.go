// Package xboxone adapts an Xbox One (and compatible third-party) USB
// gamepad to a fake Wiimote plus Nunchuk extension.
package xboxone

import (
	"github.com/Alia5/fakemote/drivers/common"
	"github.com/Alia5/fakemote/usbdriver"
	"github.com/Alia5/fakemote/wiimote"
)

// VendorID is the Microsoft USB vendor id.
const VendorID uint16 = 0x045e

// ProductIDs this driver recognises.
const (
	ProductIDXboxOneController   uint16 = 0x02ea
	ProductIDXboxOneControllerS  uint16 = 0x02fd
)

const inputEndpoint = 0x02
const outputEndpoint = 0x01

func init() {
	d := &driver{}
	usbdriver.Register(VendorID, ProductIDXboxOneController, d)
	usbdriver.Register(VendorID, ProductIDXboxOneControllerS, d)
}

type privateData struct {
	extension wiimote.Extension
}

type driver struct{}

func (driver) Init(device *usbdriver.Device) error {
	priv := privateData{extension: wiimote.ExtNunchuk}
	putPrivateData(device, priv)
	device.Session.SetExtension(priv.extension)
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
		priv := getPrivateData(device)
		buttons := report.mapButtons()
		if priv.extension == wiimote.ExtNunchuk {
			nunchuk := wiimote.NunchukData{
				JX: report.LeftX,
				JY: 255 - report.LeftY,
				C:  report.L1,
				Z:  report.L2,
			}
			device.Session.ReportInputExt(buttons, nunchuk.Marshal())
		} else {
			device.Session.ReportInput(buttons)
		}
	}
	return device.RequestAsyncData(inputEndpoint)
}

func setLEDsRumble(device *usbdriver.Device, r, g, b uint8) error {
	buf := []byte{
		0x05, // report id
		0x03, 0x00, 0x00,
		0x00, // fast motor
		0x00, // slow motor
		r, g, b,
		0x00, // LED on duration
		0x00, // LED off duration
	}
	return device.IssueInterruptTransfer(outputEndpoint, buf)
}

func putPrivateData(device *usbdriver.Device, p privateData) {
	device.PrivateData[0] = uint8(p.extension)
}

func getPrivateData(device *usbdriver.Device) privateData {
	return privateData{extension: wiimote.Extension(device.PrivateData[0])}
}
