package wiimote

// MaxFakeWiimotes bounds how many fake Wiimote sessions can be active at
// once; session i always gets the same deterministic bdaddr.
const MaxFakeWiimotes = 4

// Output report IDs (host -> device).
const (
	OutputReportIDLED        uint8 = 0x11
	OutputReportIDReportMode uint8 = 0x12
	OutputReportIDStatus     uint8 = 0x15
	OutputReportIDWriteData  uint8 = 0x16
	OutputReportIDReadData   uint8 = 0x17
)

// Input report IDs (device -> host). ReportModeDisabled is the sentinel
// reporting_mode the manager uses to suppress all data reports after an
// extension change, per spec.md §4.1 step 2.
const (
	InputReportIDStatus         uint8 = 0x20
	InputReportIDReadDataReply  uint8 = 0x21
	InputReportIDAck            uint8 = 0x22
	InputReportIDButtons        uint8 = 0x30
	InputReportIDButtonsExt8    uint8 = 0x32
	InputReportIDButtonsExt19   uint8 = 0x34
	InputReportIDExt21          uint8 = 0x3d
	ReportModeDisabled          uint8 = 0x00
)

// Memory-access address spaces (output report WRITE_DATA/READ_DATA space
// field).
const (
	AddressSpaceEEPROM    uint8 = 0x00
	AddressSpaceI2CBus    uint8 = 0x04
	AddressSpaceI2CBusAlt uint8 = 0x05
)

// I2C slave addresses recognised on the extension bus.
const (
	EEPROMI2CAddr    uint8 = 0x50
	ExtensionI2CAddr uint8 = 0x52
)

// In-band memory-access error codes, carried in READ_DATA_REPLY/ACK reports.
const (
	ErrorCodeSuccess        uint8 = 0x00
	ErrorCodeBusy           uint8 = 0x04
	ErrorCodeInvalidSpace   uint8 = 0x06
	ErrorCodeNack           uint8 = 0x07
	ErrorCodeInvalidAddress uint8 = 0x08
)

// EEPROMFreeSize is the size of the user-addressable EEPROM window.
const EEPROMFreeSize = 0x1700

// Core button bits, as packed into the two-byte buttons field of every
// input report. These match the wire layout real Wiimotes use, not an
// invented mapping, so a genuine Wii host decodes them unmodified.
const (
	ButtonTwo   uint16 = 0x0001
	ButtonOne   uint16 = 0x0002
	ButtonB     uint16 = 0x0004
	ButtonA     uint16 = 0x0008
	ButtonMinus uint16 = 0x0010
	ButtonHome  uint16 = 0x0080
	ButtonLeft  uint16 = 0x0100
	ButtonRight uint16 = 0x0200
	ButtonDown  uint16 = 0x0400
	ButtonUp    uint16 = 0x0800
	ButtonPlus  uint16 = 0x1000
)

// Extension identifiers, see §4.1 step 2 and §GLOSSARY.
type Extension uint8

const (
	ExtNone Extension = iota
	ExtNunchuk
	ExtClassic
	ExtClassicWiiUPro
	ExtGuitar
	ExtMotionPlus
)

// extIDCode returns the 6-byte identifier materialised into the extension
// register window's identifier[0..6] on an extension change, or nil for
// ExtNone (no identifier is written when detaching).
func extIDCode(ext Extension) []byte {
	switch ext {
	case ExtNunchuk:
		return []byte{0x00, 0x00, 0xa4, 0x20, 0x00, 0x00}
	case ExtClassic:
		return []byte{0x00, 0x00, 0xa4, 0x20, 0x01, 0x01}
	case ExtClassicWiiUPro:
		return []byte{0x00, 0x00, 0xa4, 0x20, 0x01, 0x20}
	case ExtGuitar:
		return []byte{0x00, 0x00, 0xa4, 0x20, 0x01, 0x03}
	case ExtMotionPlus:
		return []byte{0x00, 0x00, 0xa4, 0x20, 0x04, 0x05}
	default:
		return nil
	}
}
