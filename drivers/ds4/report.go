package ds4

import "github.com/Alia5/fakemote/wiimote"

// dpad hat-switch values, the low nibble of byte 5.
const (
	dpadUp = iota
	dpadUpRight
	dpadRight
	dpadDownRight
	dpadDown
	dpadDownLeft
	dpadLeft
	dpadUpLeft
	dpadNeutral
)

// inputReport holds the fields this driver consumes from the 64-byte DS4
// USB input report. Touchpad, gyro and accelerometer data is present on
// the wire but unused here.
type inputReport struct {
	LX, LY               uint8
	Dpad                 uint8
	Square, Cross        bool
	Circle, Triangle     bool
	L1, R1               bool
	L2Button, R2Button   bool
	Share, Options       bool
	PS                   bool
}

func parseInputReport(buf []byte) (inputReport, bool) {
	if len(buf) < 7 {
		return inputReport{}, false
	}
	var r inputReport
	r.LX = buf[1]
	r.LY = buf[2]

	b5 := buf[5]
	r.Dpad = b5 & 0x0f
	r.Square = b5&0x10 != 0
	r.Cross = b5&0x20 != 0
	r.Circle = b5&0x40 != 0
	r.Triangle = b5&0x80 != 0

	b6 := buf[6]
	r.L1 = b6&0x01 != 0
	r.R1 = b6&0x02 != 0
	r.L2Button = b6&0x04 != 0
	r.R2Button = b6&0x08 != 0
	r.Share = b6&0x10 != 0
	r.Options = b6&0x20 != 0

	if len(buf) > 7 {
		r.PS = buf[7]&0x01 != 0
	}

	return r, true
}

func (r inputReport) mapButtons() uint16 {
	var buttons uint16
	switch r.Dpad {
	case dpadUp, dpadUpRight, dpadUpLeft:
		buttons |= wiimote.ButtonUp
	case dpadDown, dpadDownRight, dpadDownLeft:
		buttons |= wiimote.ButtonDown
	}
	switch r.Dpad {
	case dpadRight, dpadUpRight, dpadDownRight:
		buttons |= wiimote.ButtonRight
	case dpadLeft, dpadUpLeft, dpadDownLeft:
		buttons |= wiimote.ButtonLeft
	}
	if r.Cross {
		buttons |= wiimote.ButtonA
	}
	if r.Circle {
		buttons |= wiimote.ButtonB
	}
	if r.Triangle {
		buttons |= wiimote.ButtonOne
	}
	if r.Square {
		buttons |= wiimote.ButtonTwo
	}
	if r.PS {
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
