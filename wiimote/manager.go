package wiimote

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Alia5/fakemote/bluetooth/hci"
	"github.com/Alia5/fakemote/bluetooth/l2cap"
)

// baseBDAddr is the fixed OUI prefix used to derive each slot's synthetic
// Bluetooth address; only the last byte varies by slot.
var baseBDAddr = hci.BDAddr{0x11, 0x02, 0x19, 0x79, 0x00, 0x00}

func slotBDAddr(slot int) hci.BDAddr {
	addr := baseBDAddr
	addr[5] = byte(slot)
	return addr
}

// Manager owns a fixed table of Wiimote sessions and drives them against a
// single HCI transport and L2CAP sender, mirroring fake_wiimote_mgr_t's
// single global session array. There is exactly one Manager per emulated
// Bluetooth controller.
type Manager struct {
	sessions  [MaxFakeWiimotes]Session
	transport hci.Transport
	sender    l2cap.Sender
	nextCID   uint16
}

// NewManager constructs a Manager with all slots idle, matching
// fake_wiimote_mgr_init.
func NewManager(transport hci.Transport, sender l2cap.Sender) *Manager {
	m := &Manager{transport: transport, sender: sender, nextCID: l2cap.StartingLocalCID}
	for i := range m.sessions {
		m.sessions[i] = newSession(i, slotBDAddr(i))
	}
	return m
}

func (m *Manager) allocLocalCID() uint16 {
	c := m.nextCID
	m.nextCID++
	return c
}

// AddInputDevice finds the first idle slot, attaches it to driver, and
// returns the new session so the caller can start reporting input.
// Matches fake_wiimote_mgr_add_input_device.
func (m *Manager) AddInputDevice(driver Driver) (*Session, error) {
	for i := range m.sessions {
		if !m.sessions[i].Active() {
			m.sessions[i].Attach(driver, m.transport, m.sender, m.allocLocalCID)
			return &m.sessions[i], nil
		}
	}
	return nil, fmt.Errorf("wiimote: no free slot (max %d)", MaxFakeWiimotes)
}

// Tick drives every active session's cascade once. A session whose Tick
// fails is disconnected (its error is session-fatal) but every other active
// session still gets ticked this cycle; errors are joined rather than
// aborting the loop, matching fake_wiimote_mgr_tick_devices, which
// unconditionally ticks every slot.
func (m *Manager) Tick() error {
	var errs []error
	for i := range m.sessions {
		if !m.sessions[i].Active() {
			continue
		}
		if err := m.sessions[i].Tick(); err != nil {
			errs = append(errs, newProtocolError(i, "tick", err))
			_ = m.sessions[i].Disconnect()
		}
	}
	return errors.Join(errs...)
}

// sessionByBDAddr finds a slot whose address matches, regardless of
// activity state (HCI connect requests address idle slots too).
func (m *Manager) sessionByBDAddr(bdaddr hci.BDAddr) *Session {
	for i := range m.sessions {
		if bytes.Equal(m.sessions[i].bdaddr[:], bdaddr[:]) {
			return &m.sessions[i]
		}
	}
	return nil
}

// sessionByConnHandle finds an active session with the given HCI connection
// handle.
func (m *Manager) sessionByConnHandle(conHandle uint16) *Session {
	for i := range m.sessions {
		if m.sessions[i].Active() && m.sessions[i].conHandle == conHandle {
			return &m.sessions[i]
		}
	}
	return nil
}

// HandleAcceptConnectionRequest answers an Accept_Connection_Request HCI
// command addressed at bdaddr: allocates a connection handle, marks the
// baseband complete, starts ACL linking, and raises the expected command
// status / role change / connection complete events. Matches
// fake_wiimote_mgr_handle_hci_cmd_accept_con.
//
// The original's address match used a buggy memcmp whose result was
// compared against a boolean short-circuit, effectively matching on the
// first address byte alone; this compares the full 6-byte address.
func (m *Manager) HandleAcceptConnectionRequest(bdaddr hci.BDAddr, role uint8) (bool, error) {
	s := m.sessionByBDAddr(bdaddr)
	if s == nil {
		return false, nil
	}

	if err := m.transport.EnqueueCommandStatus(hci.CmdAcceptConnectionRequest); err != nil {
		return true, err
	}

	s.baseband = BasebandComplete
	s.conHandle = m.transport.AllocConnectionHandle()
	s.acl = ACLLinking

	if role == hci.RoleMaster {
		if err := m.transport.EnqueueRoleChange(bdaddr, role); err != nil {
			return true, err
		}
	}

	if err := m.transport.EnqueueConnectionComplete(bdaddr, s.conHandle, 0); err != nil {
		return true, err
	}
	return true, nil
}

// HandleRejectConnectionRequest tears a not-yet-linked session down in
// response to an HCI connection rejection, matching
// fake_wiimote_mgr_handle_hci_cmd_reject_con.
func (m *Manager) HandleRejectConnectionRequest(bdaddr hci.BDAddr) (bool, error) {
	s := m.sessionByBDAddr(bdaddr)
	if s == nil {
		return false, nil
	}
	return true, s.Disconnect()
}

// HandleDisconnect tears down the session owning conHandle, matching
// fake_wiimote_mgr_handle_hci_cmd_disconnect.
func (m *Manager) HandleDisconnect(conHandle uint16) (bool, error) {
	s := m.sessionByConnHandle(conHandle)
	if s == nil {
		return false, nil
	}
	return true, s.Disconnect()
}

// OwnsConnectionHandle reports whether conHandle belongs to one of this
// manager's sessions, matching
// fake_wiimote_mgr_hci_handle_belongs_to_fake_wiimote.
func (m *Manager) OwnsConnectionHandle(conHandle uint16) bool {
	return m.sessionByConnHandle(conHandle) != nil
}

// HandleACLDataOut dispatches an inbound ACL payload (L2CAP header + body)
// addressed at conHandle: signalling-CID traffic is parsed as one or more
// L2CAP commands, anything else is routed to the owning channel by its
// local CID. Matches
// fake_wiimote_mgr_handle_acl_data_out_request_from_host.
func (m *Manager) HandleACLDataOut(conHandle uint16, acl []byte) (bool, error) {
	s := m.sessionByConnHandle(conHandle)
	if s == nil {
		return false, nil
	}
	hdr, ok := l2cap.UnmarshalHeader(acl)
	if !ok {
		return true, nil
	}
	const l2capHdrSize = 4
	body := acl[l2capHdrSize:]
	if len(body) > int(hdr.Length) {
		body = body[:hdr.Length]
	}

	if hdr.DCID == l2cap.SignalCID {
		return true, s.HandleSignalRequest(body)
	}
	return true, s.HandleChannelData(hdr.DCID, body)
}

// SessionSnapshot is a read-only status surface for one slot, used for
// diagnostics surfaces (see Manager.Snapshot).
type SessionSnapshot struct {
	Slot      int
	Active    bool
	BDAddr    hci.BDAddr
	ConHandle uint16
	Baseband  BasebandState
	ACL       ACLState
	Extension Extension
}

// Snapshot returns a point-in-time status summary of every slot, useful for
// a CLI status command or logging. Not used by the protocol state machine
// itself.
func (m *Manager) Snapshot() []SessionSnapshot {
	out := make([]SessionSnapshot, 0, MaxFakeWiimotes)
	for i := range m.sessions {
		s := &m.sessions[i]
		out = append(out, SessionSnapshot{
			Slot:      s.slot,
			Active:    s.Active(),
			BDAddr:    s.bdaddr,
			ConHandle: s.conHandle,
			Baseband:  s.baseband,
			ACL:       s.acl,
			Extension: s.curExtension,
		})
	}
	return out
}
