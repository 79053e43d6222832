package ds4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/Alia5/fakemote/wiimote"
)

func TestParseInputReportTooShort(t *testing.T) {
	_, ok := parseInputReport(make([]byte, 3))
	assert.False(t, ok)
}

func TestParseInputReportFields(t *testing.T) {
	buf := make([]byte, 10)
	buf[1] = 0x10
	buf[2] = 0x20
	buf[5] = dpadUpRight | 0x20 // dpad up-right, cross pressed
	buf[6] = 0x01 | 0x20        // l1, options
	buf[7] = 0x01               // PS

	r, ok := parseInputReport(buf)
	assert.True(t, ok)
	assert.EqualValues(t, 0x10, r.LX)
	assert.EqualValues(t, 0x20, r.LY)
	assert.True(t, r.Cross)
	assert.True(t, r.L1)
	assert.True(t, r.Options)
	assert.True(t, r.PS)
}

func TestMapButtonsDiagonalAndFace(t *testing.T) {
	r := inputReport{Dpad: dpadDownLeft, Cross: true, Triangle: true, Share: true, PS: true}
	buttons := r.mapButtons()
	assert.NotZero(t, buttons&wiimote.ButtonDown)
	assert.NotZero(t, buttons&wiimote.ButtonLeft)
	assert.NotZero(t, buttons&wiimote.ButtonA)
	assert.NotZero(t, buttons&wiimote.ButtonOne)
	assert.NotZero(t, buttons&wiimote.ButtonMinus)
	assert.NotZero(t, buttons&wiimote.ButtonHome)
}

func TestMapButtonsNeutralDpad(t *testing.T) {
	r := inputReport{Dpad: dpadNeutral}
	buttons := r.mapButtons()
	assert.Zero(t, buttons&(wiimote.ButtonUp|wiimote.ButtonDown|wiimote.ButtonLeft|wiimote.ButtonRight))
}
