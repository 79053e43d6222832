package wiimote

import (
	"fmt"

	"github.com/Alia5/fakemote/bluetooth/hci"
	"github.com/Alia5/fakemote/bluetooth/hid"
	"github.com/Alia5/fakemote/bluetooth/l2cap"
)

// BasebandState is the per-session HCI connection state machine, spec.md §3.
type BasebandState int

const (
	BasebandInactive BasebandState = iota
	BasebandRequestConnection
	BasebandComplete
)

// ACLState tracks L2CAP channel bring-up once the baseband link exists.
type ACLState int

const (
	ACLInactive ACLState = iota
	ACLLinking
)

// Driver is the callback surface a usbdriver.Device attaches to its session,
// mirroring fake_wiimote_t's usrdata/ops pair.
type Driver interface {
	SetLEDs(leds uint8)
	Assigned()
	Disconnected()
}

// Session is a single emulated Wiimote's full protocol state: one baseband
// link, up to three L2CAP channels, the output-report interpreter's cursor
// state, and the EEPROM/extension register backing stores. Exactly
// spec.md §3's "Session" aggregate.
//
// A session's Bluetooth and L2CAP collaborators (transport, sender, local
// CID allocator) are wired once at Attach time rather than threaded through
// every call, the way the teacher's connection-scoped structs hold their
// transport handle for their lifetime.
type Session struct {
	slot   int
	active bool
	bdaddr hci.BDAddr

	transport hci.Transport
	sender    l2cap.Sender
	allocCID  func() uint16

	baseband  BasebandState
	acl       ACLState
	conHandle uint16

	chans channelTable

	driver Driver

	reportingMode       uint8
	reportingContinuous bool
	buttons             uint16

	curExtension Extension
	newExtension Extension
	extRegs      ExtensionRegisters

	eeprom EEPROM

	read readRequest

	inputDirty bool
}

func newSession(slot int, bdaddr hci.BDAddr) Session {
	return Session{slot: slot, bdaddr: bdaddr}
}

// Attach brings a session out of its idle slot and assigns it to a driver,
// matching fake_wiimote_mgr_add_input_device. transport/sender/allocCID are
// the owning Manager's Bluetooth collaborators.
func (s *Session) Attach(driver Driver, transport hci.Transport, sender l2cap.Sender, allocCID func() uint16) {
	s.transport = transport
	s.sender = sender
	s.allocCID = allocCID
	s.baseband = BasebandRequestConnection
	s.acl = ACLInactive
	s.chans.reset()
	s.driver = driver
	s.buttons = 0
	s.curExtension = ExtNone
	s.newExtension = ExtNone
	s.extRegs = NewExtensionRegisters()
	s.eeprom = EEPROM{}
	s.read = readRequest{}
	s.reportingMode = InputReportIDButtons
	s.reportingContinuous = false
	s.inputDirty = false
	s.active = true
}

// BDAddr returns the session's fixed synthetic Bluetooth address.
func (s *Session) BDAddr() hci.BDAddr { return s.bdaddr }

// Active reports whether the slot holds a live session.
func (s *Session) Active() bool { return s.active }

// Slot returns the session's fixed index in the manager's session table.
func (s *Session) Slot() int { return s.slot }

// ConnectionHandle returns the session's allocated HCI connection handle,
// valid once the baseband state reaches Complete.
func (s *Session) ConnectionHandle() uint16 { return s.conHandle }

// SetExtension requests a new extension identity; the change is applied on
// the next tick via processExtensionChange, matching the real device's
// report that extension swaps are not instantaneous.
func (s *Session) SetExtension(ext Extension) { s.newExtension = ext }

// ReportInput updates the button state, marking input dirty only on change.
func (s *Session) ReportInput(buttons uint16) {
	if buttons != s.buttons {
		s.buttons = buttons
		s.inputDirty = true
	}
}

// ReportInputExt updates buttons and extension controller data together.
// Only the bytes from the first one that differs from the current
// controller-data window onward are copied in, and input is marked dirty only if something
// changed — mirroring fake_wiimote_mgr_report_input_ext's memmismatch-based
// partial copy, which avoids re-sending identical extension frames.
func (s *Session) ReportInputExt(buttons uint16, extData []byte) {
	cur := s.extRegs.ControllerData()
	n := len(extData)
	if n > len(cur) {
		n = len(cur)
	}
	diffAt := -1
	for i := 0; i < n; i++ {
		if cur[i] != extData[i] {
			diffAt = i
			break
		}
	}
	changed := buttons != s.buttons
	if diffAt >= 0 {
		changed = true
		copy(cur[diffAt:n], extData[diffAt:n])
	}
	if changed {
		s.buttons = buttons
		s.inputDirty = true
	}
}

// Disconnect tears the session down: notifies the driver if the HID
// interrupt channel had completed, sends disconnect requests for any
// accepted channel, raises an HCI disconnection-complete event if the
// baseband had completed, and frees the slot. Matches fake_wiimote_disconnect.
func (s *Session) Disconnect() error {
	if !s.active {
		return nil
	}
	intr := s.chans.get(ChannelHIDInterrupt)
	if intr.IsComplete() && s.driver != nil {
		s.driver.Disconnected()
	}

	var firstErr error
	for role := ChannelRole(0); role < channelRoleCount; role++ {
		c := s.chans.get(role)
		if !c.IsAccepted() {
			continue
		}
		if err := s.sender.SendDisconnectReq(s.conHandle, c.LocalCID, c.RemoteCID); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("session %d: disconnect req for channel %v: %w", s.slot, role, err)
		}
	}

	if s.baseband == BasebandComplete {
		if err := s.transport.EnqueueDisconnectionComplete(s.conHandle, 0, hci.ReasonUserEndedConnection); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.active = false
	s.baseband = BasebandInactive
	s.acl = ACLInactive
	return firstErr
}

// checkSendConfigForChannel issues a CONFIG_REQ the first time a channel
// becomes accepted, matching check_send_config_for_new_channel.
func (s *Session) checkSendConfigForChannel(role ChannelRole) error {
	c := s.chans.get(role)
	if !c.IsAccepted() || c.State != ChannelInactive {
		return nil
	}
	if err := s.sender.SendConfigReq(s.conHandle, c.RemoteCID, l2cap.MTUDefault, l2cap.FlushTimeoutDefault); err != nil {
		return err
	}
	c.State = ChannelConfigPending
	return nil
}

// Tick drives one step of the session's cascade: baseband connection
// bring-up, then ACL/channel linking, then (once linked) the steady-state
// read-request / extension-change / input-report cascade. Matches
// fake_wiimote_tick.
func (s *Session) Tick() error {
	if !s.active {
		return nil
	}

	switch s.baseband {
	case BasebandRequestConnection:
		if s.transport.RequestConnection(s.bdaddr, hci.WiimoteHCIClass0, hci.WiimoteHCIClass1, hci.WiimoteHCIClass2, hci.LinkACL) {
			s.baseband = BasebandInactive
		}
		return nil
	case BasebandInactive:
		return nil
	}

	// BasebandComplete
	if s.acl == ACLLinking {
		cntl := s.chans.get(ChannelHIDControl)
		intr := s.chans.get(ChannelHIDInterrupt)
		switch {
		case !cntl.Valid:
			setupChannel(cntl, l2cap.PSMHIDCntl, s.allocCID())
			if err := s.sender.SendConnectReq(s.conHandle, l2cap.PSMHIDCntl, cntl.LocalCID); err != nil {
				return err
			}
		case !intr.Valid:
			setupChannel(intr, l2cap.PSMHIDIntr, s.allocCID())
			if err := s.sender.SendConnectReq(s.conHandle, l2cap.PSMHIDIntr, intr.LocalCID); err != nil {
				return err
			}
		case cntl.IsComplete() && intr.IsComplete():
			s.acl = ACLInactive
			if s.driver != nil {
				s.driver.Assigned()
			}
		}
		if err := s.checkSendConfigForChannel(ChannelHIDControl); err != nil {
			return err
		}
		if err := s.checkSendConfigForChannel(ChannelHIDInterrupt); err != nil {
			return err
		}
		return nil
	}

	if s.processReadRequest() {
		return nil
	}
	if s.processExtensionChange() {
		return nil
	}
	return s.sendDataReport()
}

// processReadRequest advances a pending READ_DATA cursor by at most 16
// bytes per tick, matching fake_wiimote_process_read_request including its
// quirk of reporting size 16 (size_minus_one=15) on error replies.
func (s *Session) processReadRequest() bool {
	if !s.read.pending() {
		return false
	}
	readSize := s.read.size
	if readSize > 16 {
		readSize = 16
	}

	var buf [16]byte
	var errCode uint8

	switch s.read.space {
	case AddressSpaceEEPROM:
		if err := s.eeprom.Read(buf[:readSize], s.read.address, readSize); err != nil {
			errCode = ErrorCodeInvalidAddress
		} else {
			errCode = ErrorCodeSuccess
		}
	case AddressSpaceI2CBus, AddressSpaceI2CBusAlt:
		// A slave address that is neither the EEPROM nor the extension port
		// falls through with errCode left at its zero value (Success) and
		// buf left zeroed, matching fake_wiimote_process_read_request's
		// switch, which has no default case inside this branch.
		switch s.read.slaveAddress {
		case EEPROMI2CAddr:
			errCode = ErrorCodeInvalidAddress
		case ExtensionI2CAddr:
			if err := s.extRegs.Read(buf[:readSize], s.read.address, readSize); err != nil {
				errCode = ErrorCodeNack
			} else {
				errCode = ErrorCodeSuccess
			}
		}
	default:
		errCode = ErrorCodeInvalidSpace
	}

	reportAddress := s.read.address
	if errCode != ErrorCodeSuccess {
		s.read.cancel()
		readSize = 16
	} else {
		s.read.address += readSize
		s.read.size -= readSize
	}

	reply := ReadDataReplyReport{
		Buttons:      s.buttons,
		Error:        errCode,
		SizeMinusOne: uint8(readSize - 1),
		Address:      reportAddress,
		Data:         buf,
	}
	_ = s.sender.SendData(s.conHandle, s.chans.get(ChannelHIDInterrupt).RemoteCID,
		hid.WrapInputReport(InputReportIDReadDataReply, reply.Marshal()))
	return true
}

// processExtensionChange applies a pending SetExtension swap: on a real
// change it rewrites the register window's identifier bytes, disables
// reporting (the host must re-enable it), and announces the new status.
// Matches fake_wiimote_process_extension_change.
func (s *Session) processExtensionChange() bool {
	if s.newExtension == s.curExtension {
		return false
	}
	if id := extIDCode(s.newExtension); id != nil {
		s.extRegs.SetIdentifier(id)
	}
	s.curExtension = s.newExtension
	s.reportingMode = ReportModeDisabled

	status := StatusReport{Buttons: s.buttons, Extension: s.curExtension != ExtNone}
	_ = s.sender.SendData(s.conHandle, s.chans.get(ChannelHIDInterrupt).RemoteCID,
		hid.WrapInputReport(InputReportIDStatus, status.Marshal()))
	return true
}

// sendDataReport emits the current input-report frame if reporting is
// enabled and either continuous mode is on or input changed since the last
// tick. Matches fake_wiimote_send_data_report.
func (s *Session) sendDataReport() error {
	if s.reportingMode == ReportModeDisabled {
		return nil
	}
	if !s.reportingContinuous && !s.inputDirty {
		return nil
	}

	shape := shapeFor(s.reportingMode)
	size := int(shape.extSize)
	if shape.hasBtn {
		size += 2
	}
	buf := make([]byte, size)
	if shape.hasBtn {
		buf[0] = byte(s.buttons)
		buf[1] = byte(s.buttons >> 8)
	}
	if shape.extSize > 0 {
		off := int(shape.extOffset)
		if err := s.extRegs.Read(buf[off:off+int(shape.extSize)], 0, uint16(shape.extSize)); err != nil {
			return err
		}
	}

	intr := s.chans.get(ChannelHIDInterrupt)
	if err := s.sender.SendData(s.conHandle, intr.RemoteCID, hid.WrapInputReport(s.reportingMode, buf)); err != nil {
		return err
	}
	s.inputDirty = false
	return nil
}
