package wiimote

import (
	"fmt"

	"github.com/Alia5/fakemote/bluetooth/l2cap"
)

// handleSignal dispatches one parsed L2CAP signalling command against this
// session's channel table. Matches handle_l2cap_signal_channel.
func (s *Session) handleSignal(hdr l2cap.CmdHeader, payload []byte) error {
	switch hdr.Code {
	case l2cap.CodeConnectReq:
		req, ok := l2cap.UnmarshalConnectReq(payload)
		if !ok {
			return nil
		}
		if req.PSM != l2cap.PSMSDP {
			return s.sender.SendConnectRsp(s.conHandle, hdr.Ident, l2cap.NullCID, req.SCID, l2cap.ResultPSMNotSupport)
		}
		sdp := s.chans.get(ChannelSDP)
		setupChannel(sdp, req.PSM, s.allocCID())
		sdp.RemoteCID = req.SCID
		return s.sender.SendConnectRsp(s.conHandle, hdr.Ident, sdp.LocalCID, req.SCID, l2cap.ResultSuccess)

	case l2cap.CodeConnectRsp:
		rsp, ok := l2cap.UnmarshalConnectRsp(payload)
		if !ok {
			return nil
		}
		if rsp.Result != l2cap.ResultSuccess || (rsp.DCID == l2cap.ResultPSMNotSupport && rsp.SCID == 0) {
			return s.Disconnect()
		}
		if c := s.chans.byLocalCID(rsp.SCID); c != nil {
			c.RemoteCID = rsp.DCID
		}
		return nil

	case l2cap.CodeConfigReq:
		req, ok := l2cap.UnmarshalConfigReq(payload)
		if !ok {
			return nil
		}
		return s.handleConfigReq(hdr.Ident, req)

	case l2cap.CodeConfigRsp:
		rsp, ok := l2cap.UnmarshalConfigRsp(payload)
		if !ok {
			return nil
		}
		if rsp.Result != l2cap.ResultSuccess {
			return nil
		}
		if c := s.chans.byLocalCID(rsp.SCID); c != nil {
			c.State = ChannelComplete
		}
		return nil

	case l2cap.CodeDisconnectReq:
		req, ok := l2cap.UnmarshalDisconnectReq(payload)
		if !ok {
			return nil
		}
		if c := s.chans.byLocalCID(req.SCID); c != nil {
			if c.PSM == l2cap.PSMHIDIntr && c.IsComplete() && s.driver != nil {
				s.driver.Disconnected()
			}
			c.Valid = false
		}
		return s.sender.SendDisconnectRsp(s.conHandle, hdr.Ident, req.DCID, req.SCID)

	default:
		return nil
	}
}

// handleConfigReq answers a CONFIG_REQ: unrecognised options are echoed
// back verbatim, MTU is recorded (defaulting if absent), flush timeout is
// acknowledged but not stored. Matches handle_l2cap_config_req.
func (s *Session) handleConfigReq(ident uint8, req l2cap.ConfigReq) error {
	c := s.chans.byLocalCID(req.DCID)
	if c == nil {
		return fmt.Errorf("config req for unknown local cid %#x", req.DCID)
	}
	mtu := l2cap.MTUFromOptions(req.Options)

	// The response's scid names the channel from the peer's point of view,
	// i.e. the remote cid we recorded when the channel was accepted.
	payload := l2cap.MarshalConfigRsp(c.RemoteCID, l2cap.ResultSuccess, req.Options)
	if err := s.sender.SendConfigRsp(s.conHandle, req.DCID, ident, payload); err != nil {
		return err
	}
	c.RemoteMTU = mtu
	return nil
}

// HandleSignalRequest walks a single ACL payload addressed to the
// signalling CID, which may batch several commands back to back. Matches
// handle_l2cap_signal_channel_request.
func (s *Session) HandleSignalRequest(payload []byte) error {
	for len(payload) > 0 {
		hdr, ok := l2cap.UnmarshalCmdHeader(payload)
		if !ok {
			return nil
		}
		const cmdHdrSize = 4
		end := cmdHdrSize + int(hdr.Length)
		if end > len(payload) {
			return nil
		}
		if err := s.handleSignal(hdr, payload[cmdHdrSize:end]); err != nil {
			return err
		}
		payload = payload[end:]
	}
	return nil
}

// HandleChannelData dispatches an inbound ACL payload addressed to a
// specific (non-signalling) channel by its local CID, per
// fake_wiimote_mgr_handle_acl_data_out_request_from_host's PSM switch.
func (s *Session) HandleChannelData(localCID uint16, payload []byte) error {
	c := s.chans.byLocalCID(localCID)
	if c == nil {
		return nil
	}
	switch c.PSM {
	case l2cap.PSMHIDIntr:
		return s.handleHIDIntrData(payload)
	default:
		// SDP / HID-control data channels carry no traffic we act on.
		return nil
	}
}
