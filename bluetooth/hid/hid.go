// Package hid implements the thin HID framing layer the Wiimote profile
// wraps every L2CAP HID-Interrupt/HID-Control frame in: a single type/param
// byte followed by a report-id-prefixed payload.
package hid

// HID message types (high nibble of the first frame byte).
const (
	TypeHandshake uint8 = 0x0
	TypeData      uint8 = 0xA
)

// HID params (low nibble of the first frame byte).
const (
	ParamInput  uint8 = 0x1
	ParamOutput uint8 = 0x2
)

// MaxPayload bounds a single Wiimote HID frame, including the leading
// type/param byte and the report-id byte.
const MaxPayload = 23

// FrameHeader returns the single (type<<4)|param byte every HID frame over
// L2CAP begins with.
func FrameHeader(typ, param uint8) uint8 {
	return (typ << 4) | param
}

// WrapInputReport builds a full HID-Interrupt frame for an input report:
// [ (DATA<<4)|INPUT, reportID, data... ].
func WrapInputReport(reportID uint8, data []byte) []byte {
	buf := make([]byte, 2+len(data))
	buf[0] = FrameHeader(TypeData, ParamInput)
	buf[1] = reportID
	copy(buf[2:], data)
	return buf
}

// SplitOutputReport strips the HID type/param byte from an inbound frame and
// reports whether it was an output-report data frame at all. ok is false for
// anything that isn't (DATA<<4)|OUTPUT, in which case the frame should be
// ignored by the caller.
func SplitOutputReport(frame []byte) (payload []byte, ok bool) {
	if len(frame) == 0 {
		return nil, false
	}
	if frame[0] != FrameHeader(TypeData, ParamOutput) {
		return nil, false
	}
	return frame[1:], true
}
