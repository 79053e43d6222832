package wiimote

import (
	"encoding/binary"
	"testing"

	"github.com/Alia5/fakemote/bluetooth/l2cap"
	"github.com/Alia5/fakemote/bluetooth/loopback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findEvent locates the last recorded event of the given kind, used to
// assert on the arguments a Sender call was made with.
func findEvent(backend *loopback.Backend, kind string, out *loopback.Event) bool {
	for i := len(backend.Events) - 1; i >= 0; i-- {
		if backend.Events[i].Kind == kind {
			*out = backend.Events[i]
			return true
		}
	}
	return false
}

func marshalConfigReq(dcid uint16, opts ...l2cap.ConfigOption) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], dcid)
	for _, o := range opts {
		b = append(b, o.Type, uint8(len(o.Value)))
		b = append(b, o.Value...)
	}
	return b
}

func signalFrame(code uint8, ident uint8, payload []byte) []byte {
	hdr := l2cap.CmdHeader{Code: code, Ident: ident, Length: uint16(len(payload))}
	return append(hdr.Marshal(), payload...)
}

func TestHandleSignalConnectReqSDPAccepts(t *testing.T) {
	s, backend := newReadySession(t)
	req := l2cap.ConnectReq{PSM: l2cap.PSMSDP, SCID: 0x0080}

	require.NoError(t, s.HandleSignalRequest(signalFrame(l2cap.CodeConnectReq, 7, req.Marshal())))

	sdp := s.chans.get(ChannelSDP)
	assert.True(t, sdp.Valid)
	assert.Equal(t, uint16(0x0080), sdp.RemoteCID)

	var ev loopback.Event
	require.True(t, findEvent(backend, "SendConnectRsp", &ev))
	assert.Equal(t, uint8(7), ev.Args[1])
	assert.Equal(t, sdp.LocalCID, ev.Args[2])
	assert.Equal(t, uint16(0x0080), ev.Args[3])
	assert.Equal(t, l2cap.ResultSuccess, ev.Args[4])
}

func TestHandleSignalConnectReqUnsupportedPSMRejects(t *testing.T) {
	s, backend := newReadySession(t)
	req := l2cap.ConnectReq{PSM: 0x00ff, SCID: 0x0080}

	require.NoError(t, s.HandleSignalRequest(signalFrame(l2cap.CodeConnectReq, 3, req.Marshal())))

	var ev loopback.Event
	require.True(t, findEvent(backend, "SendConnectRsp", &ev))
	assert.Equal(t, l2cap.NullCID, ev.Args[2])
	assert.Equal(t, l2cap.ResultPSMNotSupport, ev.Args[4])
}

func TestHandleSignalConnectRspFailureDisconnectsSession(t *testing.T) {
	s, _ := newReadySession(t)
	require.True(t, s.Active())

	payload := l2cap.MarshalConnectRsp(l2cap.NullCID, 0x0099, l2cap.ResultPSMNotSupport)
	require.NoError(t, s.HandleSignalRequest(signalFrame(l2cap.CodeConnectRsp, 1, payload)))

	assert.False(t, s.Active(), "a failed CONNECT_RSP is session-fatal")
}

func TestHandleSignalConnectRspSuccessRecordsRemoteCID(t *testing.T) {
	s, _ := newReadySession(t)
	cntl := s.chans.get(ChannelHIDControl)
	cntl.Valid = true
	cntl.LocalCID = 0x0041
	cntl.RemoteCID = l2cap.NullCID

	payload := l2cap.MarshalConnectRsp(0x0200, cntl.LocalCID, l2cap.ResultSuccess)
	require.NoError(t, s.HandleSignalRequest(signalFrame(l2cap.CodeConnectRsp, 2, payload)))

	assert.True(t, s.Active())
	assert.Equal(t, uint16(0x0200), cntl.RemoteCID)
}

func TestHandleConfigReqRespondsAndRecordsRemoteMTU(t *testing.T) {
	s, backend := newReadySession(t)
	cntl := s.chans.get(ChannelHIDControl)

	req := marshalConfigReq(cntl.LocalCID, l2cap.MTUOption(185))
	require.NoError(t, s.HandleSignalRequest(signalFrame(l2cap.CodeConfigReq, 4, req)))

	assert.Equal(t, uint16(185), cntl.RemoteMTU)

	var ev loopback.Event
	require.True(t, findEvent(backend, "SendConfigRsp", &ev))
	assert.Equal(t, cntl.LocalCID, ev.Args[1])
	assert.Equal(t, uint8(4), ev.Args[2])
}

func TestHandleConfigRspSuccessCompletesChannel(t *testing.T) {
	s, _ := newReadySession(t)
	cntl := s.chans.get(ChannelHIDControl)
	cntl.State = ChannelConfigPending

	rsp := make([]byte, 6)
	binary.LittleEndian.PutUint16(rsp[0:2], cntl.LocalCID)
	binary.LittleEndian.PutUint16(rsp[4:6], l2cap.ResultSuccess)
	require.NoError(t, s.HandleSignalRequest(signalFrame(l2cap.CodeConfigRsp, 5, rsp)))

	assert.Equal(t, ChannelComplete, cntl.State)
}

func TestHandleConfigRspFailureLeavesChannelPending(t *testing.T) {
	s, _ := newReadySession(t)
	cntl := s.chans.get(ChannelHIDControl)
	cntl.State = ChannelConfigPending

	rsp := make([]byte, 6)
	binary.LittleEndian.PutUint16(rsp[0:2], cntl.LocalCID)
	binary.LittleEndian.PutUint16(rsp[4:6], l2cap.ResultPSMNotSupport)
	require.NoError(t, s.HandleSignalRequest(signalFrame(l2cap.CodeConfigRsp, 6, rsp)))

	assert.Equal(t, ChannelConfigPending, cntl.State)
}
