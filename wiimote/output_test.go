package wiimote

import (
	"testing"

	"github.com/Alia5/fakemote/bluetooth/hci"
	"github.com/Alia5/fakemote/bluetooth/hid"
	"github.com/Alia5/fakemote/bluetooth/l2cap"
	"github.com/Alia5/fakemote/bluetooth/loopback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newReadySession builds a Session past baseband/ACL bring-up, with its HID
// control and interrupt channels both accepted and configured, ready to
// exercise the output-report interpreter directly.
func newReadySession(t *testing.T) (*Session, *loopback.Backend) {
	t.Helper()
	backend := loopback.NewBackend()
	transport := loopback.NewTransport(backend)
	sender := loopback.NewSender(backend)

	var bdaddr hci.BDAddr
	copy(bdaddr[:], []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x00})
	s := newSession(0, bdaddr)
	nextCID := l2cap.StartingLocalCID
	alloc := func() uint16 {
		cid := nextCID
		nextCID++
		return cid
	}
	s.Attach(&stubDriver{}, transport, sender, alloc)
	s.conHandle = 1
	s.baseband = BasebandComplete
	s.acl = ACLInactive

	cntl := s.chans.get(ChannelHIDControl)
	setupChannel(cntl, l2cap.PSMHIDCntl, alloc())
	cntl.RemoteCID = 0x70
	cntl.RemoteMTU = l2cap.MTUDefault
	cntl.State = ChannelComplete

	intr := s.chans.get(ChannelHIDInterrupt)
	setupChannel(intr, l2cap.PSMHIDIntr, alloc())
	intr.RemoteCID = 0x71
	intr.RemoteMTU = l2cap.MTUDefault
	intr.State = ChannelComplete

	return &s, backend
}

func lastSendData(backend *loopback.Backend) (dcid uint16, payload []byte, ok bool) {
	for i := len(backend.Events) - 1; i >= 0; i-- {
		ev := backend.Events[i]
		if ev.Kind != "SendData" {
			continue
		}
		return ev.Args[1].(uint16), ev.Args[2].([]byte), true
	}
	return 0, nil, false
}

func outputFrame(reportID uint8, body ...byte) []byte {
	frame := make([]byte, 0, 2+len(body))
	frame = append(frame, hid.FrameHeader(hid.TypeData, hid.ParamOutput), reportID)
	frame = append(frame, body...)
	return frame
}

func TestHandleHIDIntrDataLEDSetsDriverAndAcksOnlyWhenRequested(t *testing.T) {
	s, backend := newReadySession(t)
	drv := s.driver.(*stubDriver)

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDLED, 0x30)))
	assert.Equal(t, uint8(0x30), drv.leds)
	_, _, ok := lastSendData(backend)
	assert.False(t, ok, "no ack expected without the ack flag")

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDLED, 0x30|ledFlagAck)))
	dcid, payload, ok := lastSendData(backend)
	require.True(t, ok)
	assert.Equal(t, uint16(0x71), dcid)
	assert.Equal(t, hid.WrapInputReport(InputReportIDAck, AckReport{ReportID: OutputReportIDLED, ErrorCode: ErrorCodeSuccess}.Marshal()), payload)
}

func TestHandleHIDIntrDataStatusAlwaysReplies(t *testing.T) {
	s, backend := newReadySession(t)
	s.buttons = ButtonA
	s.curExtension = ExtNunchuk

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDStatus)))
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	want := hid.WrapInputReport(InputReportIDStatus, StatusReport{Buttons: ButtonA, Extension: true}.Marshal())
	assert.Equal(t, want, payload)
}

func TestHandleHIDIntrDataReportModeUpdatesStateAndAcksOnFlag(t *testing.T) {
	s, backend := newReadySession(t)

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDReportMode, modeFlagContinuous, InputReportIDButtonsExt8)))
	assert.True(t, s.reportingContinuous)
	assert.Equal(t, InputReportIDButtonsExt8, s.reportingMode)
	_, _, ok := lastSendData(backend)
	assert.False(t, ok)

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDReportMode, modeFlagAck, InputReportIDButtons)))
	assert.False(t, s.reportingContinuous)
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	assert.Equal(t, hid.WrapInputReport(InputReportIDAck, AckReport{ReportID: OutputReportIDReportMode, ErrorCode: ErrorCodeSuccess}.Marshal()), payload)
}

func TestProcessWriteRequestEEPROMRoundTrip(t *testing.T) {
	s, backend := newReadySession(t)
	body := make([]byte, 21)
	body[0] = AddressSpaceEEPROM << 1
	body[1] = 0x00
	body[2], body[3] = 0x10, 0x00 // address 0x0010
	body[4] = 4                   // size
	copy(body[5:9], []byte{0xde, 0xad, 0xbe, 0xef})

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDWriteData, body...)))
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	assert.Equal(t, hid.WrapInputReport(InputReportIDAck, AckReport{ReportID: OutputReportIDWriteData, ErrorCode: ErrorCodeSuccess}.Marshal()), payload)

	var got [4]byte
	require.NoError(t, s.eeprom.Read(got[:], 0x0010, 4))
	assert.Equal(t, [4]byte{0xde, 0xad, 0xbe, 0xef}, got)
}

func TestProcessWriteRequestUnrecognisedI2CSlaveFallsThroughToSuccess(t *testing.T) {
	s, backend := newReadySession(t)
	body := make([]byte, 21)
	body[0] = AddressSpaceI2CBus << 1
	body[1] = 0x55 // neither EEPROMI2CAddr nor ExtensionI2CAddr
	body[4] = 1

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDWriteData, body...)))
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	// Matches fake_wiimote_process_write_request's switch, which has no
	// default case inside the I2C branch: an unrecognised slave address
	// silently succeeds instead of nacking.
	assert.Equal(t, hid.WrapInputReport(InputReportIDAck, AckReport{ReportID: OutputReportIDWriteData, ErrorCode: ErrorCodeSuccess}.Marshal()), payload)
}

func TestProcessWriteRequestExtensionNackOnOutOfRangeWrite(t *testing.T) {
	s, backend := newReadySession(t)
	body := make([]byte, 21)
	body[0] = AddressSpaceI2CBus << 1
	body[1] = ExtensionI2CAddr
	body[2], body[3] = 0xf8, 0x00 // address near the end of the 256-byte window
	body[4] = 16                  // overruns the window

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDWriteData, body...)))
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	assert.Equal(t, hid.WrapInputReport(InputReportIDAck, AckReport{ReportID: OutputReportIDWriteData, ErrorCode: ErrorCodeNack}.Marshal()), payload)
}

func TestProcessWriteRequestMalformedSizeIsSilentlyDropped(t *testing.T) {
	s, backend := newReadySession(t)
	body := make([]byte, 21)
	body[0] = AddressSpaceEEPROM << 1
	body[4] = 0 // size 0: dropped, no ack

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDWriteData, body...)))
	_, _, ok := lastSendData(backend)
	assert.False(t, ok)
}

func TestBeginReadRequestEEPROMRepliesImmediately(t *testing.T) {
	s, backend := newReadySession(t)
	require.NoError(t, s.eeprom.Write([]byte{0xaa, 0xbb}, 0x0020, 2))

	body := make([]byte, 6)
	body[0] = AddressSpaceEEPROM << 1
	body[2], body[3] = 0x20, 0x00
	body[4], body[5] = 2, 0

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDReadData, body...)))
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)

	reply := ReadDataReplyReport{Error: ErrorCodeSuccess, SizeMinusOne: 1, Address: 0x0020}
	copy(reply.Data[:2], []byte{0xaa, 0xbb})
	assert.Equal(t, hid.WrapInputReport(InputReportIDReadDataReply, reply.Marshal()), payload)
	assert.False(t, s.read.pending(), "a 2-byte read completes within one tick's worth of data")
}

func TestBeginReadRequestUnrecognisedI2CSlaveFallsThroughToSuccess(t *testing.T) {
	s, backend := newReadySession(t)
	body := make([]byte, 6)
	body[0] = AddressSpaceI2CBusAlt << 1
	body[1] = 0x55 // neither EEPROMI2CAddr nor ExtensionI2CAddr
	body[4], body[5] = 4, 0

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDReadData, body...)))
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)

	reply := ReadDataReplyReport{Error: ErrorCodeSuccess, SizeMinusOne: 3}
	assert.Equal(t, hid.WrapInputReport(InputReportIDReadDataReply, reply.Marshal()), payload)
}

func TestBeginReadRequestBusyWhilePending(t *testing.T) {
	s, backend := newReadySession(t)
	// A read larger than one tick's 16-byte chunk stays pending afterwards.
	body := make([]byte, 6)
	body[0] = AddressSpaceEEPROM << 1
	body[4], body[5] = 32, 0
	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDReadData, body...)))
	require.True(t, s.read.pending())

	require.NoError(t, s.handleHIDIntrData(outputFrame(OutputReportIDReadData, body...)))
	_, payload, ok := lastSendData(backend)
	require.True(t, ok)
	assert.Equal(t, hid.WrapInputReport(InputReportIDAck, AckReport{ReportID: OutputReportIDReadData, ErrorCode: ErrorCodeBusy}.Marshal()), payload)
}
