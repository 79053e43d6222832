package ds3

import "github.com/Alia5/fakemote/wiimote"

// inputReport holds the fields this driver consumes from the DS3's 49-byte
// input report. Pressure-sensitive button levels and motion data are
// present on the wire but unused here.
type inputReport struct {
	LX, LY                      uint8
	Up, Down, Left, Right       bool
	Select, Start               bool
	Triangle, Circle, Cross, Square bool
	L1, R1, L2, R2              bool
	PS                           bool
}

func parseInputReport(buf []byte) (inputReport, bool) {
	if len(buf) < 10 {
		return inputReport{}, false
	}
	if buf[0] != 0x01 {
		return inputReport{}, false
	}
	var r inputReport
	b2 := buf[2]
	r.Select = b2&0x01 != 0
	r.Start = b2&0x08 != 0
	r.Up = b2&0x10 != 0
	r.Right = b2&0x20 != 0
	r.Down = b2&0x40 != 0
	r.Left = b2&0x80 != 0

	b3 := buf[3]
	r.L2 = b3&0x01 != 0
	r.R2 = b3&0x02 != 0
	r.L1 = b3&0x04 != 0
	r.R1 = b3&0x08 != 0
	r.Triangle = b3&0x10 != 0
	r.Circle = b3&0x20 != 0
	r.Cross = b3&0x40 != 0
	r.Square = b3&0x80 != 0

	r.PS = buf[4]&0x01 != 0

	r.LX = buf[6]
	r.LY = buf[7]

	return r, true
}

func (r inputReport) mapButtons() uint16 {
	var buttons uint16
	if r.Up {
		buttons |= wiimote.ButtonUp
	}
	if r.Down {
		buttons |= wiimote.ButtonDown
	}
	if r.Left {
		buttons |= wiimote.ButtonLeft
	}
	if r.Right {
		buttons |= wiimote.ButtonRight
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
	if r.Select {
		buttons |= wiimote.ButtonMinus
	}
	if r.Start {
		buttons |= wiimote.ButtonPlus
	}
	return buttons
}
