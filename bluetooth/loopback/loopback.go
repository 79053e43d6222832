// Package loopback provides an in-memory hci.Transport and l2cap.Sender
// pair. Real controller/ACL socket I/O is deliberately outside this
// module's scope (spec: the HCI transport is "exposed to the core only as
// a set of enqueue/send primitives and inbound delivery callbacks"), so
// this is the reference collaborator used by tests and by the CLI's run
// command, with or without --simulate: every outbound primitive succeeds immediately and
// records what was sent instead of touching real hardware.
package loopback

import (
	"sync"

	"github.com/Alia5/fakemote/bluetooth/hci"
)

// Event is one recorded outbound HCI event or L2CAP send.
type Event struct {
	Kind string
	Args []any
}

// Backend records every primitive issued against it and hands out
// monotonically increasing connection handles, standing in for a real
// Bluetooth controller's connection table.
type Backend struct {
	mu         sync.Mutex
	nextHandle uint16
	Events     []Event
}

// NewBackend returns an idle Backend.
func NewBackend() *Backend {
	return &Backend{nextHandle: 1}
}

func (b *Backend) record(kind string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, Event{Kind: kind, Args: args})
}

// Transport implements hci.Transport against a Backend.
type Transport struct{ b *Backend }

// NewTransport wraps a Backend as an hci.Transport.
func NewTransport(b *Backend) *Transport { return &Transport{b: b} }

func (t *Transport) RequestConnection(bdaddr hci.BDAddr, class0, class1, class2 uint8, linkType uint8) bool {
	t.b.record("RequestConnection", bdaddr, class0, class1, class2, linkType)
	return true
}

func (t *Transport) EnqueueCommandStatus(cmd uint16) error {
	t.b.record("EnqueueCommandStatus", cmd)
	return nil
}

func (t *Transport) EnqueueConnectionComplete(bdaddr hci.BDAddr, conHandle uint16, status uint8) error {
	t.b.record("EnqueueConnectionComplete", bdaddr, conHandle, status)
	return nil
}

func (t *Transport) EnqueueDisconnectionComplete(conHandle uint16, status uint8, reason uint8) error {
	t.b.record("EnqueueDisconnectionComplete", conHandle, status, reason)
	return nil
}

func (t *Transport) EnqueueRoleChange(bdaddr hci.BDAddr, newRole uint8) error {
	t.b.record("EnqueueRoleChange", bdaddr, newRole)
	return nil
}

func (t *Transport) AllocConnectionHandle() uint16 {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	h := t.b.nextHandle
	t.b.nextHandle++
	return h
}

// Sender implements l2cap.Sender against a Backend.
type Sender struct{ b *Backend }

// NewSender wraps a Backend as an l2cap.Sender.
func NewSender(b *Backend) *Sender { return &Sender{b: b} }

func (s *Sender) SendConnectReq(conHandle uint16, psm uint16, scid uint16) error {
	s.b.record("SendConnectReq", conHandle, psm, scid)
	return nil
}

func (s *Sender) SendConnectRsp(conHandle uint16, ident uint8, dcid uint16, scid uint16, result uint16) error {
	s.b.record("SendConnectRsp", conHandle, ident, dcid, scid, result)
	return nil
}

func (s *Sender) SendConfigReq(conHandle uint16, dcid uint16, mtu uint16, flushTimeout uint16) error {
	s.b.record("SendConfigReq", conHandle, dcid, mtu, flushTimeout)
	return nil
}

func (s *Sender) SendConfigRsp(conHandle uint16, dcid uint16, ident uint8, payload []byte) error {
	s.b.record("SendConfigRsp", conHandle, dcid, ident, payload)
	return nil
}

func (s *Sender) SendDisconnectReq(conHandle uint16, dcid uint16, scid uint16) error {
	s.b.record("SendDisconnectReq", conHandle, dcid, scid)
	return nil
}

func (s *Sender) SendDisconnectRsp(conHandle uint16, ident uint8, dcid uint16, scid uint16) error {
	s.b.record("SendDisconnectRsp", conHandle, ident, dcid, scid)
	return nil
}

func (s *Sender) SendData(conHandle uint16, dcid uint16, payload []byte) error {
	s.b.record("SendData", conHandle, dcid, payload)
	return nil
}
