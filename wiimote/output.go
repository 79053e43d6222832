package wiimote

import (
	"encoding/binary"

	"github.com/Alia5/fakemote/bluetooth/hid"
)

// Output report payload layouts. These are internal wire formats between the
// session's output-report interpreter and nothing else (no physical host
// ever parses them), so the bit layout is ours to define cleanly rather than
// needing to match real hardware byte-for-byte.

// ledFlags bit positions within an OUTPUT_REPORT_ID_LED payload byte 0.
const (
	ledFlagAck  uint8 = 0x01
	ledFlagMask uint8 = 0xf0
)

// reportModeFlags bit positions within an OUTPUT_REPORT_ID_REPORT_MODE
// payload byte 0.
const (
	modeFlagContinuous uint8 = 0x01
	modeFlagAck        uint8 = 0x02
)

// writeDataPayload and readDataPayload mirror the output report payloads for
// WRITE_DATA/READ_DATA: space, slave_address, address, size, [data].
type writeDataPayload struct {
	space        uint8
	slaveAddress uint8
	address      uint16
	size         uint8
	data         [16]byte
}

func parseWriteDataPayload(b []byte) (writeDataPayload, bool) {
	if len(b) < 21 {
		return writeDataPayload{}, false
	}
	p := writeDataPayload{
		space:        b[0] >> 1,
		slaveAddress: b[1],
		address:      binary.LittleEndian.Uint16(b[2:4]),
		size:         b[4],
	}
	copy(p.data[:], b[5:21])
	return p, true
}

type readDataPayload struct {
	space        uint8
	slaveAddress uint8
	address      uint16
	size         uint16
}

func parseReadDataPayload(b []byte) (readDataPayload, bool) {
	if len(b) < 6 {
		return readDataPayload{}, false
	}
	return readDataPayload{
		space:        b[0] >> 1,
		slaveAddress: b[1],
		address:      binary.LittleEndian.Uint16(b[2:4]),
		size:         binary.LittleEndian.Uint16(b[4:6]),
	}, true
}

// readRequest is the cursor a pending READ_DATA walks across ticks, matching
// fake_wiimote_t's read_request fields.
type readRequest struct {
	space        uint8
	slaveAddress uint8
	address      uint16
	size         uint16
}

func (r *readRequest) pending() bool { return r.size != 0 }
func (r *readRequest) cancel()       { r.size = 0 }

// handleHIDIntrData dispatches one HID output report arriving on the
// interrupt channel, matching handle_hid_intr_data_output.
func (s *Session) handleHIDIntrData(frame []byte) error {
	payload, ok := hid.SplitOutputReport(frame)
	if !ok || len(payload) == 0 {
		return nil
	}
	reportID, body := payload[0], payload[1:]

	switch reportID {
	case OutputReportIDLED:
		if len(body) < 1 {
			return nil
		}
		leds := body[0] & ledFlagMask
		if s.driver != nil {
			s.driver.SetLEDs(leds)
		}
		if body[0]&ledFlagAck != 0 {
			return s.sendAck(OutputReportIDLED, ErrorCodeSuccess)
		}
		return nil

	case OutputReportIDStatus:
		status := StatusReport{Buttons: s.buttons, Extension: s.curExtension != ExtNone}
		return s.sender.SendData(s.conHandle, s.chans.get(ChannelHIDInterrupt).RemoteCID,
			hid.WrapInputReport(InputReportIDStatus, status.Marshal()))

	case OutputReportIDReportMode:
		if len(body) < 2 {
			return nil
		}
		s.reportingContinuous = body[0]&modeFlagContinuous != 0
		s.reportingMode = body[1]
		if body[0]&modeFlagAck != 0 {
			return s.sendAck(OutputReportIDReportMode, ErrorCodeSuccess)
		}
		return nil

	case OutputReportIDWriteData:
		return s.processWriteRequest(body)

	case OutputReportIDReadData:
		return s.beginReadRequest(body)

	default:
		return nil
	}
}

func (s *Session) sendAck(reportID uint8, errorCode uint8) error {
	ack := AckReport{Buttons: s.buttons, ReportID: reportID, ErrorCode: errorCode}
	return s.sender.SendData(s.conHandle, s.chans.get(ChannelHIDInterrupt).RemoteCID,
		hid.WrapInputReport(InputReportIDAck, ack.Marshal()))
}

// processWriteRequest performs a WRITE_DATA immediately (writes are never
// split across ticks) and always replies with an ack carrying the
// resulting error code. A malformed size (0 or >16) is silently dropped,
// matching fake_wiimote_process_write_request's "no reply" behaviour.
func (s *Session) processWriteRequest(body []byte) error {
	req, ok := parseWriteDataPayload(body)
	if !ok || req.size == 0 || req.size > 16 {
		return nil
	}

	var errCode uint8
	switch req.space {
	case AddressSpaceEEPROM:
		if err := s.eeprom.Write(req.data[:req.size], req.address, uint16(req.size)); err != nil {
			errCode = ErrorCodeInvalidAddress
		} else {
			errCode = ErrorCodeSuccess
		}
	case AddressSpaceI2CBus, AddressSpaceI2CBusAlt:
		// A slave address that is neither the EEPROM nor the extension port
		// falls through with errCode left at its zero value (Success),
		// matching fake_wiimote_process_write_request's switch, which has no
		// default case inside this branch.
		switch req.slaveAddress {
		case EEPROMI2CAddr:
			errCode = ErrorCodeInvalidAddress
		case ExtensionI2CAddr:
			if err := s.extRegs.Write(req.data[:req.size], req.address, uint16(req.size)); err != nil {
				errCode = ErrorCodeNack
			} else {
				errCode = ErrorCodeSuccess
			}
		}
	default:
		errCode = ErrorCodeInvalidSpace
	}

	return s.sendAck(OutputReportIDWriteData, errCode)
}

// beginReadRequest stores a new read cursor and immediately services its
// first chunk synchronously, matching the original's same-tick first read;
// a request arriving while one is already pending is rejected with BUSY.
func (s *Session) beginReadRequest(body []byte) error {
	if s.read.pending() {
		return s.sendAck(OutputReportIDReadData, ErrorCodeBusy)
	}
	req, ok := parseReadDataPayload(body)
	if !ok || req.size == 0 {
		return nil
	}
	s.read = readRequest{
		space:        req.space,
		slaveAddress: req.slaveAddress,
		address:      req.address,
		size:         req.size,
	}
	s.processReadRequest()
	return nil
}
