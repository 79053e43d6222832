package xboxone

import "github.com/Alia5/fakemote/wiimote"

// inputReport holds the fields of the vendor HID input report this driver
// actually consumes. The wire format carries a great deal more (triggers,
// accelerometer, gyro, trackpad fingers) that this module has no use for
// and so does not decode.
type inputReport struct {
	ReportID uint8
	LeftX    uint8
	LeftY    uint8
	Dpad     uint8
	A, B, Y, X bool
	L1, L2, R1, R2 bool
	Share, Options bool
	Home bool
}

func parseInputReport(buf []byte) (inputReport, bool) {
	if len(buf) < 8 {
		return inputReport{}, false
	}
	var r inputReport
	r.ReportID = buf[0]
	if r.ReportID != 0x01 {
		return r, false
	}
	r.LeftX = buf[1]
	r.LeftY = buf[2]

	b5 := buf[5]
	r.A = b5&0x01 != 0
	r.B = b5&0x02 != 0
	r.Y = b5&0x04 != 0
	r.X = b5&0x08 != 0
	r.Dpad = (b5 >> 4) & 0x0f

	b6 := buf[6]
	r.Share = b6&0x08 != 0
	r.Options = b6&0x04 != 0
	r.R2 = b6&0x10 != 0
	r.L2 = b6&0x20 != 0
	r.R1 = b6&0x40 != 0
	r.L1 = b6&0x80 != 0

	r.Home = buf[7]&0x80 != 0

	return r, true
}

// mapButtons translates the decoded report into core Wiimote button bits,
// following the eight-direction dpad-to-dpad table and one-to-one face
// button mapping the controller this protocol was reverse engineered from
// uses.
func (r inputReport) mapButtons() uint16 {
	var buttons uint16
	switch r.Dpad {
	case 0, 1, 7:
		buttons |= wiimote.ButtonUp
	case 3, 4, 5:
		buttons |= wiimote.ButtonDown
	}
	switch r.Dpad {
	case 1, 2, 3:
		buttons |= wiimote.ButtonRight
	case 5, 6, 7:
		buttons |= wiimote.ButtonLeft
	}
	if r.A {
		buttons |= wiimote.ButtonA
	}
	if r.B {
		buttons |= wiimote.ButtonB
	}
	if r.Y {
		buttons |= wiimote.ButtonOne
	}
	if r.X {
		buttons |= wiimote.ButtonTwo
	}
	if r.Home {
		buttons |= wiimote.ButtonHome
	}
	if r.Share {
		buttons |= wiimote.ButtonMinus
	}
	if r.Options {
		buttons |= wiimote.ButtonPlus
	}
	return buttons
}
