package wiimote

import "encoding/binary"

// reportShape describes, for a given reporting_mode, whether the 2-byte
// button field is present and how many extension bytes follow at what
// offset. Only the button+extension modes are modelled; IR/accelerometer
// framing is out of scope per spec.md's Non-goals on motion/IR accuracy, and
// any unrecognised mode degrades to buttons-only framing.
type reportShape struct {
	hasBtn   bool
	extSize  uint8
	extOffset uint8
}

func shapeFor(mode uint8) reportShape {
	switch mode {
	case InputReportIDButtons:
		return reportShape{hasBtn: true, extSize: 0, extOffset: 0}
	case InputReportIDButtonsExt8:
		return reportShape{hasBtn: true, extSize: 8, extOffset: 2}
	case InputReportIDButtonsExt19:
		return reportShape{hasBtn: true, extSize: 19, extOffset: 2}
	case InputReportIDExt21:
		return reportShape{hasBtn: false, extSize: 21, extOffset: 0}
	default:
		return reportShape{hasBtn: true, extSize: 0, extOffset: 0}
	}
}

// hasBtn, extSize, extOffset are the three pure helpers spec.md §4.3 calls
// out by name.
func hasBtn(mode uint8) bool    { return shapeFor(mode).hasBtn }
func extSize(mode uint8) uint8  { return shapeFor(mode).extSize }
func extOffset(mode uint8) uint8 { return shapeFor(mode).extOffset }

// AckReport is the INPUT_REPORT_ID_ACK payload.
type AckReport struct {
	Buttons   uint16
	ReportID  uint8
	ErrorCode uint8
}

func (a AckReport) Marshal() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], a.Buttons)
	b[2] = a.ReportID
	b[3] = a.ErrorCode
	return b
}

// StatusReport is the INPUT_REPORT_ID_STATUS payload.
type StatusReport struct {
	Buttons   uint16
	Extension bool
	LEDs      uint8
	Battery   uint8
}

func (s StatusReport) Marshal() []byte {
	b := make([]byte, 6)
	binary.LittleEndian.PutUint16(b[0:2], s.Buttons)
	flags := s.LEDs & 0xf0
	if s.Extension {
		flags |= 0x02
	}
	b[2] = flags
	b[5] = s.Battery
	return b
}

// ReadDataReplyReport is the INPUT_REPORT_ID_READ_DATA_REPLY payload.
type ReadDataReplyReport struct {
	Buttons      uint16
	Error        uint8
	SizeMinusOne uint8
	Address      uint16
	Data         [16]byte
}

func (r ReadDataReplyReport) Marshal() []byte {
	b := make([]byte, 21)
	binary.LittleEndian.PutUint16(b[0:2], r.Buttons)
	b[2] = (r.SizeMinusOne << 4) | (r.Error & 0x0f)
	binary.LittleEndian.PutUint16(b[3:5], r.Address)
	copy(b[5:21], r.Data[:])
	return b
}
