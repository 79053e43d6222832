// Package l2cap implements the wire codec for the Logical Link Control and
// Adaptation Protocol slice the core needs: the fixed channel header,
// signalling command framing, and the connect/config/disconnect command
// payloads. It does not implement a transport; see Sender for that boundary.
package l2cap

import "encoding/binary"

// Well-known PSMs.
const (
	PSMSDP     uint16 = 0x0001
	PSMHIDCntl uint16 = 0x0011
	PSMHIDIntr uint16 = 0x0013
)

// NullCID is the sentinel remote CID value meaning "not yet assigned".
const NullCID uint16 = 0x0000

// SignalCID is the fixed CID every L2CAP signalling command is addressed to.
const SignalCID uint16 = 0x0001

// StartingLocalCID is the first dynamically allocated local channel ID.
// "Identifiers from 0x0001 to 0x003F are reserved" per the L2CAP spec.
const StartingLocalCID uint16 = 0x0040

// Signalling command codes.
const (
	CodeConnectReq    uint8 = 0x02
	CodeConnectRsp    uint8 = 0x03
	CodeConfigReq     uint8 = 0x04
	CodeConfigRsp     uint8 = 0x05
	CodeDisconnectReq uint8 = 0x06
	CodeDisconnectRsp uint8 = 0x07
)

// Connect response results.
const (
	ResultSuccess       uint16 = 0x0000
	ResultPSMNotSupport uint16 = 0x0002
	NoInfo              uint16 = 0x0000
)

// Config option types.
const (
	OptMTU       uint8 = 0x01
	OptFlushTimo uint8 = 0x02
)

// MTUDefault is used when a peer's config request omits an MTU option.
const MTUDefault uint16 = 672

// FlushTimeoutDefault is sent in every outbound config request; the core
// never drops packets, so the actual value is cosmetic.
const FlushTimeoutDefault uint16 = 0xffff

// Header is the 4-byte fixed channel header prefixing every L2CAP frame.
type Header struct {
	Length uint16
	DCID   uint16
}

func (h Header) Marshal() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], h.Length)
	binary.LittleEndian.PutUint16(b[2:4], h.DCID)
	return b
}

func UnmarshalHeader(b []byte) (Header, bool) {
	if len(b) < 4 {
		return Header{}, false
	}
	return Header{
		Length: binary.LittleEndian.Uint16(b[0:2]),
		DCID:   binary.LittleEndian.Uint16(b[2:4]),
	}, true
}

// CmdHeader is the 4-byte header of every signalling command.
type CmdHeader struct {
	Code   uint8
	Ident  uint8
	Length uint16
}

func (h CmdHeader) Marshal() []byte {
	b := make([]byte, 4)
	b[0] = h.Code
	b[1] = h.Ident
	binary.LittleEndian.PutUint16(b[2:4], h.Length)
	return b
}

func UnmarshalCmdHeader(b []byte) (CmdHeader, bool) {
	if len(b) < 4 {
		return CmdHeader{}, false
	}
	return CmdHeader{
		Code:   b[0],
		Ident:  b[1],
		Length: binary.LittleEndian.Uint16(b[2:4]),
	}, true
}

// ConnectReq is the L2CAP_CONNECT_REQ command payload.
type ConnectReq struct {
	PSM  uint16
	SCID uint16
}

func (c ConnectReq) Marshal() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], c.PSM)
	binary.LittleEndian.PutUint16(b[2:4], c.SCID)
	return b
}

func UnmarshalConnectReq(b []byte) (ConnectReq, bool) {
	if len(b) < 4 {
		return ConnectReq{}, false
	}
	return ConnectReq{
		PSM:  binary.LittleEndian.Uint16(b[0:2]),
		SCID: binary.LittleEndian.Uint16(b[2:4]),
	}, true
}

// ConnectRsp is the L2CAP_CONNECT_RSP command payload.
type ConnectRsp struct {
	DCID   uint16
	SCID   uint16
	Result uint16
	Status uint16
}

func UnmarshalConnectRsp(b []byte) (ConnectRsp, bool) {
	if len(b) < 8 {
		return ConnectRsp{}, false
	}
	return ConnectRsp{
		DCID:   binary.LittleEndian.Uint16(b[0:2]),
		SCID:   binary.LittleEndian.Uint16(b[2:4]),
		Result: binary.LittleEndian.Uint16(b[4:6]),
		Status: binary.LittleEndian.Uint16(b[6:8]),
	}, true
}

// MarshalConnectRsp builds a L2CAP_CONNECT_RSP payload; used by tests that
// simulate a peer's reply arriving on the signalling channel.
func MarshalConnectRsp(dcid, scid, result uint16) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:2], dcid)
	binary.LittleEndian.PutUint16(b[2:4], scid)
	binary.LittleEndian.PutUint16(b[4:6], result)
	binary.LittleEndian.PutUint16(b[6:8], NoInfo)
	return b
}

// ConfigOption is a single TLV option inside a config request/response.
type ConfigOption struct {
	Type  uint8
	Value []byte
}

// ConfigReq is the parsed L2CAP_CONFIG_REQ payload (DCID + flags + options).
type ConfigReq struct {
	DCID    uint16
	Flags   uint16
	Options []ConfigOption
}

func UnmarshalConfigReq(b []byte) (ConfigReq, bool) {
	if len(b) < 4 {
		return ConfigReq{}, false
	}
	req := ConfigReq{
		DCID:  binary.LittleEndian.Uint16(b[0:2]),
		Flags: binary.LittleEndian.Uint16(b[2:4]),
	}
	rest := b[4:]
	for len(rest) >= 2 {
		optType := rest[0]
		optLen := int(rest[1])
		if len(rest) < 2+optLen {
			break
		}
		req.Options = append(req.Options, ConfigOption{Type: optType, Value: append([]byte(nil), rest[2:2+optLen]...)})
		rest = rest[2+optLen:]
	}
	return req, true
}

// MarshalConfigRsp builds the L2CAP_CONFIG_RSP payload: scid, flags, result, then
// the option list echoed back verbatim.
func MarshalConfigRsp(scid uint16, result uint16, opts []ConfigOption) []byte {
	b := make([]byte, 6)
	binary.LittleEndian.PutUint16(b[0:2], scid)
	binary.LittleEndian.PutUint16(b[2:4], 0x0000)
	binary.LittleEndian.PutUint16(b[4:6], result)
	for _, o := range opts {
		b = append(b, o.Type, uint8(len(o.Value)))
		b = append(b, o.Value...)
	}
	return b
}

// ConfigRsp is the parsed L2CAP_CONFIG_RSP payload.
type ConfigRsp struct {
	SCID   uint16
	Flags  uint16
	Result uint16
}

func UnmarshalConfigRsp(b []byte) (ConfigRsp, bool) {
	if len(b) < 6 {
		return ConfigRsp{}, false
	}
	return ConfigRsp{
		SCID:   binary.LittleEndian.Uint16(b[0:2]),
		Flags:  binary.LittleEndian.Uint16(b[2:4]),
		Result: binary.LittleEndian.Uint16(b[4:6]),
	}, true
}

// DisconnectReq is the L2CAP_DISCONNECT_REQ/RSP payload shape (dcid, scid).
type DisconnectReq struct {
	DCID uint16
	SCID uint16
}

func UnmarshalDisconnectReq(b []byte) (DisconnectReq, bool) {
	if len(b) < 4 {
		return DisconnectReq{}, false
	}
	return DisconnectReq{
		DCID: binary.LittleEndian.Uint16(b[0:2]),
		SCID: binary.LittleEndian.Uint16(b[2:4]),
	}, true
}

func (d DisconnectReq) Marshal() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], d.DCID)
	binary.LittleEndian.PutUint16(b[2:4], d.SCID)
	return b
}

// MTUOption builds a single MTU config option (little-endian u16 value).
func MTUOption(mtu uint16) ConfigOption {
	v := make([]byte, 2)
	binary.LittleEndian.PutUint16(v, mtu)
	return ConfigOption{Type: OptMTU, Value: v}
}

// FlushTimeoutOption builds a single flush-timeout config option.
func FlushTimeoutOption(timo uint16) ConfigOption {
	v := make([]byte, 2)
	binary.LittleEndian.PutUint16(v, timo)
	return ConfigOption{Type: OptFlushTimo, Value: v}
}

// MTUFromOptions scans a parsed option list for an MTU option, falling back
// to MTUDefault when the peer didn't supply one.
func MTUFromOptions(opts []ConfigOption) uint16 {
	for _, o := range opts {
		if o.Type == OptMTU && len(o.Value) == 2 {
			return binary.LittleEndian.Uint16(o.Value)
		}
	}
	return MTUDefault
}

// Sender is the external L2CAP transport collaborator: packet assembly and
// delivery is out of scope for the core, which only ever enqueues signalling
// commands or data and observes a busy/ok/error result.
type Sender interface {
	SendConnectReq(conHandle uint16, psm uint16, scid uint16) error
	SendConnectRsp(conHandle uint16, ident uint8, dcid uint16, scid uint16, result uint16) error
	SendConfigReq(conHandle uint16, dcid uint16, mtu uint16, flushTimeout uint16) error
	SendConfigRsp(conHandle uint16, dcid uint16, ident uint8, payload []byte) error
	SendDisconnectReq(conHandle uint16, dcid uint16, scid uint16) error
	SendDisconnectRsp(conHandle uint16, ident uint8, dcid uint16, scid uint16) error
	SendData(conHandle uint16, dcid uint16, payload []byte) error
}
